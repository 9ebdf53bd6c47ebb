package models

// Tenant is the root configuration scope. A tenant owns application profiles;
// migration operates within one tenant at a time.
type Tenant struct {
	// Name is the tenant name, unique on the remote store.
	Name string `json:"name" yaml:"name"`

	// AppProfiles are the application profiles owned by this tenant.
	AppProfiles []*AppProfile `json:"app_profiles,omitempty" yaml:"app_profiles,omitempty"`
}

// AppProfile groups EPGs within a tenant. It is the scope boundary for the
// parameters phase of a migration.
type AppProfile struct {
	// Name is the application profile name, unique within the tenant.
	Name string `json:"name" yaml:"name"`

	// EPGs are the endpoint groups owned by this profile.
	EPGs []*EPG `json:"epgs,omitempty" yaml:"epgs,omitempty"`
}

// EPG is an endpoint group. EPGs own the typed folders the migration rewrites.
type EPG struct {
	// Name is the EPG name, unique within the application profile.
	Name string `json:"name" yaml:"name"`

	// Folders are the typed configuration folders attached to this EPG.
	Folders []*Folder `json:"folders,omitempty" yaml:"folders,omitempty"`
}

// Clone returns a deep copy of the tenant tree.
func (t *Tenant) Clone() *Tenant {
	if t == nil {
		return nil
	}
	c := &Tenant{Name: t.Name}
	for _, app := range t.AppProfiles {
		c.AppProfiles = append(c.AppProfiles, app.Clone())
	}
	return c
}

// AppProfile returns the application profile with the given name, or nil.
func (t *Tenant) AppProfile(name string) *AppProfile {
	for _, app := range t.AppProfiles {
		if app.Name == name {
			return app
		}
	}
	return nil
}

// Clone returns a deep copy of the application profile.
func (a *AppProfile) Clone() *AppProfile {
	if a == nil {
		return nil
	}
	c := &AppProfile{Name: a.Name}
	for _, epg := range a.EPGs {
		c.EPGs = append(c.EPGs, epg.Clone())
	}
	return c
}

// EPG returns the endpoint group with the given name, or nil.
func (a *AppProfile) EPG(name string) *EPG {
	for _, epg := range a.EPGs {
		if epg.Name == name {
			return epg
		}
	}
	return nil
}

// Clone returns a deep copy of the EPG.
func (e *EPG) Clone() *EPG {
	if e == nil {
		return nil
	}
	c := &EPG{Name: e.Name}
	for _, f := range e.Folders {
		c.Folders = append(c.Folders, f.Clone())
	}
	return c
}

// Folder returns the top-level folder with the given name, or nil.
func (e *EPG) Folder(name string) *Folder {
	for _, f := range e.Folders {
		if f.Name == name {
			return f
		}
	}
	return nil
}
