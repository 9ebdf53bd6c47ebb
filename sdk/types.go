package sdk

// Wire envelopes for the configuration store API.

// loginRequest is the session login payload.
type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// loginResponse carries the session token returned by a successful login.
type loginResponse struct {
	Token string `json:"token"`
}

// nameListResponse is the envelope for tenant and app-profile enumeration.
type nameListResponse struct {
	Names []string `json:"names"`
}

// APIResponse is the generic error envelope returned by the store.
type APIResponse struct {
	Error string `json:"error,omitempty"`
}
