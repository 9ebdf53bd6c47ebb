package sdk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panos-tools/dpmigrate/internal/apictest"
	"github.com/panos-tools/dpmigrate/models"
)

func newTestClient(t *testing.T, srv *apictest.Server, login, password string) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{
		BaseURL:       srv.URL(),
		Login:         login,
		Password:      password,
		RetryAttempts: 2,
		RetryWaitMin:  time.Millisecond,
		RetryWaitMax:  5 * time.Millisecond,
		Timeout:       5 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func newTestServer(t *testing.T) *apictest.Server {
	t.Helper()
	srv := apictest.New("admin", "secret")
	t.Cleanup(srv.Close)
	srv.SetTenant(apictest.LegacyTenant("acme", "web"))
	srv.SetClusters("acme", apictest.SourceClusters("acme", "web"))
	return srv
}

func TestClientConfigValidation(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewClient(ClientConfig{BaseURL: "https://apic.example.com"})
	assert.ErrorIs(t, err, ErrMissingAuth)

	_, err = NewClient(ClientConfig{BaseURL: "apic.example.com", Login: "admin"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewClient(ClientConfig{BaseURL: "https://apic.example.com/", Login: "admin", Password: "pw"})
	assert.NoError(t, err)
}

func TestLoginAndListTenants(t *testing.T) {
	srv := newTestServer(t)
	client := newTestClient(t, srv, "admin", "secret")

	names, err := client.ListTenants(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"acme"}, names)
}

func TestLoginRejectedCredentials(t *testing.T) {
	srv := newTestServer(t)
	client := newTestClient(t, srv, "admin", "wrong")

	_, err := client.ListTenants(context.Background())
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestLoadTenantTree(t *testing.T) {
	srv := newTestServer(t)
	client := newTestClient(t, srv, "admin", "secret")
	ctx := context.Background()

	tenant, err := client.LoadTenant(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, tenant.AppProfiles, 1)

	layer := tenant.AppProfiles[0].EPGs[0].Folders[0].Folders[0]
	assert.Equal(t, models.KindLayer3InterfaceConfig, layer.Kind)
	p := layer.Param(models.ParamSecurityZone)
	require.NotNil(t, p)
	assert.Equal(t, "DMZ", p.Value)
}

func TestLoadTenantNotFound(t *testing.T) {
	srv := newTestServer(t)
	client := newTestClient(t, srv, "admin", "secret")

	_, err := client.LoadTenant(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = client.ListAppProfiles(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListAppProfilesAndClusters(t *testing.T) {
	srv := newTestServer(t)
	client := newTestClient(t, srv, "admin", "secret")
	ctx := context.Background()

	apps, err := client.ListAppProfiles(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, []string{"web"}, apps)

	clusters, err := client.ListClusters(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, clusters, 3)
	assert.True(t, clusters[0].AtVersion(models.SourceVersion))
}

func TestApplyMutatesTheStore(t *testing.T) {
	srv := newTestServer(t)
	client := newTestClient(t, srv, "admin", "secret")

	err := client.Apply(context.Background(), models.Op{
		Type:   models.OpCreateFolder,
		Path:   models.Path{Tenant: "acme", App: "web", EPG: "web-epg"},
		Folder: &models.Folder{Name: "DMZ", Kind: models.KindZone},
	})
	require.NoError(t, err)

	tenant := srv.Tenant("acme")
	zone := tenant.AppProfiles[0].EPGs[0].Folder("DMZ")
	require.NotNil(t, zone)
	assert.Equal(t, models.KindZone, zone.Kind)
}

func TestApplyRetriesTransientServerErrors(t *testing.T) {
	srv := newTestServer(t)
	client := newTestClient(t, srv, "admin", "secret")

	// First op attempt fails with a 500; the retry must succeed.
	srv.FailOpNumber(1)
	err := client.Apply(context.Background(), models.Op{
		Type:   models.OpCreateFolder,
		Path:   models.Path{Tenant: "acme", App: "web", EPG: "web-epg"},
		Folder: &models.Folder{Name: "DMZ", Kind: models.KindZone},
	})
	require.NoError(t, err)
	require.NotNil(t, srv.Tenant("acme").AppProfiles[0].EPGs[0].Folder("DMZ"))
}

func TestSessionIsEstablishedOnce(t *testing.T) {
	srv := newTestServer(t)
	client := newTestClient(t, srv, "admin", "secret")
	ctx := context.Background()

	_, err := client.ListTenants(ctx)
	require.NoError(t, err)
	_, err = client.ListAppProfiles(ctx, "acme")
	require.NoError(t, err)

	client.mu.RLock()
	token := client.token
	client.mu.RUnlock()
	assert.NotEmpty(t, token, "session token should be cached after the first call")
}
