package router

import (
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// Routes are the three API groups a module can attach to.
type Routes struct {
	Public *gin.RouterGroup
	// Authed requires a valid token.
	Authed *gin.RouterGroup
	// Admin requires a valid token with the admin role.
	Admin *gin.RouterGroup
}

// A module implements one or both interfaces.
type APIModule interface{ MountAPI(Routes) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// Modules mount in ascending Priority; 100 when not implemented.
type prioritizer interface{ Priority() int }

type Registry struct {
	mu        sync.RWMutex
	apiMods   []APIModule
	adminMods []AdminModule
}

func NewRegistry(mods ...any) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

// Register sorts mod into the API and/or admin list by the interfaces it
// implements.
func (r *Registry) Register(mod any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := mod.(APIModule); ok {
		r.apiMods = append(r.apiMods, m)
	}
	if m, ok := mod.(AdminModule); ok {
		r.adminMods = append(r.adminMods, m)
	}
}

func (r *Registry) MountAllAPI(rt Routes) {
	r.mu.RLock()
	mods := append([]APIModule(nil), r.apiMods...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(rt)
	}
}

func (r *Registry) MountAllAdmin(admin *gin.RouterGroup) {
	r.mu.RLock()
	mods := append([]AdminModule(nil), r.adminMods...)
	r.mu.RUnlock()

	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAdmin(admin)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
