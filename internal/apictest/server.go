// Package apictest provides an in-memory fake of the configuration store's
// REST API for tests. It serves the same endpoints the SDK client consumes,
// backed by the tree package's apply logic so that the fake and the planner
// share one mutation semantics.
package apictest

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/panos-tools/dpmigrate/internal/tree"
	"github.com/panos-tools/dpmigrate/models"
)

// Server is a fake configuration store backed by in-memory tenant trees.
//
// All state access is serialized through mu; a Server is safe to drive from
// parallel subtests. Mutations go through tree.Apply and tree.ApplyCluster,
// so behavior matches what the executor plans against.
type Server struct {
	mu       sync.Mutex
	tenants  map[string]*models.Tenant
	clusters map[string][]models.Cluster

	login    string
	password string
	tokens   map[string]bool

	// failAfter, when > 0, makes the failAfter-th op POST fail with a 500.
	// Earlier ops apply normally; this simulates a mid-run store fault.
	failAfter int
	opCount   int
	applied   []models.Op

	httpServer *httptest.Server
}

// New creates a started fake store with the given session credentials.
// Callers must Close it when done.
func New(login, password string) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		tenants:  make(map[string]*models.Tenant),
		clusters: make(map[string][]models.Cluster),
		login:    login,
		password: password,
		tokens:   make(map[string]bool),
	}

	router := gin.New()
	router.POST("/api/v1/login", s.handleLogin)

	authed := router.Group("/api/v1", s.requireToken)
	authed.GET("/tenants", s.handleListTenants)
	authed.GET("/tenants/:tenant/apps", s.handleListApps)
	authed.GET("/tenants/:tenant/tree", s.handleTree)
	authed.GET("/tenants/:tenant/clusters", s.handleListClusters)
	authed.POST("/ops", s.handleApplyOp)

	s.httpServer = httptest.NewServer(router)
	return s
}

// URL returns the base URL of the fake store.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Close shuts the fake store down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// SetTenant installs or replaces a tenant tree.
func (s *Server) SetTenant(t *models.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[t.Name] = t.Clone()
}

// SetClusters installs the cluster list visible from a tenant.
func (s *Server) SetClusters(tenant string, clusters []models.Cluster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusters[tenant] = append([]models.Cluster(nil), clusters...)
}

// Tenant returns a copy of the stored tenant tree, or nil if absent.
func (s *Server) Tenant(name string) *models.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[name]
	if !ok {
		return nil
	}
	return t.Clone()
}

// Clusters returns a copy of the tenant's cluster list.
func (s *Server) Clusters(tenant string) []models.Cluster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Cluster(nil), s.clusters[tenant]...)
}

// AppliedOps returns the ops accepted so far, in arrival order.
func (s *Server) AppliedOps() []models.Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Op(nil), s.applied...)
}

// FailOpNumber makes the n-th op POST (1-based, counting from now) fail
// with an internal error. Pass 0 to clear the injection.
func (s *Server) FailOpNumber(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = n
	s.opCount = 0
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed login request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Login != s.login || req.Password != s.password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token := uuid.New().String()
	s.tokens[token] = true
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// requireToken rejects requests without a valid session token.
func (s *Server) requireToken(c *gin.Context) {
	token := c.GetHeader("X-Auth-Token")

	s.mu.Lock()
	valid := s.tokens[token]
	s.mu.Unlock()

	if !valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or expired session"})
		return
	}
	c.Next()
}

func (s *Server) handleListTenants(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.tenants))
	for name := range s.tenants {
		names = append(names, name)
	}
	c.JSON(http.StatusOK, gin.H{"names": names})
}

func (s *Server) handleListApps(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[c.Param("tenant")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}

	names := make([]string, 0, len(t.AppProfiles))
	for _, app := range t.AppProfiles {
		names = append(names, app.Name)
	}
	c.JSON(http.StatusOK, gin.H{"names": names})
}

func (s *Server) handleTree(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tenants[c.Param("tenant")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) handleListClusters(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant := c.Param("tenant")
	if _, ok := s.tenants[tenant]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		return
	}
	clusters := s.clusters[tenant]
	if clusters == nil {
		clusters = []models.Cluster{}
	}
	c.JSON(http.StatusOK, gin.H{"clusters": clusters})
}

func (s *Server) handleApplyOp(c *gin.Context) {
	var op models.Op
	if err := c.ShouldBindJSON(&op); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed operation"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.opCount++
	if s.failAfter > 0 && s.opCount == s.failAfter {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "injected store fault"})
		return
	}

	if op.Type == models.OpUpdateCluster {
		if err := s.applyClusterOp(op); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
	} else {
		t, ok := s.tenants[op.Path.Tenant]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		if err := tree.Apply(t, op); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
	}

	s.applied = append(s.applied, op)
	c.JSON(http.StatusOK, gin.H{})
}

// applyClusterOp locates and rewrites the targeted cluster. Infra-level
// attachments (device managers, chassis) carry no tenant in their op path,
// so the lookup falls back to searching every stored list. Callers hold mu.
func (s *Server) applyClusterOp(op models.Op) error {
	if list, ok := s.clusters[op.Path.Tenant]; ok {
		if updated, err := tree.ApplyCluster(list, op); err == nil {
			s.clusters[op.Path.Tenant] = updated
			return nil
		}
	}
	for key, list := range s.clusters {
		if key == op.Path.Tenant {
			continue
		}
		if updated, err := tree.ApplyCluster(list, op); err == nil {
			s.clusters[key] = updated
			return nil
		}
	}
	return &models.NotFoundError{Kind: "cluster", Name: op.Path.Cluster}
}

// Store returns a tree.Store backed directly by this fake, bypassing HTTP.
// Engine tests use it to exercise migration flows without the SDK client.
func (s *Server) Store() tree.Store {
	return &directStore{s: s}
}
