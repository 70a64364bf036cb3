package runtime

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"team-lab/errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

type teamName struct {
	Name string `validate:"required,max=64,printascii"`
}

type Registry struct {
	mu    sync.RWMutex
	log   *slog.Logger
	teams map[string]*Team // map name -> team
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		log:   log,
		teams: make(map[string]*Team),
	}
}

// Team returns the team registered under name, creating it with default
// metadata on first use. Names must be non-empty printable ASCII.
func (r *Registry) Team(name string) (*Team, error) {
	if err := validate.Struct(teamName{Name: name}); err != nil {
		return nil, fmt.Errorf("%w %q: %v", errors.ErrInvalidTeamName, name, err)
	}

	r.mu.RLock()
	team, ok := r.teams[name]
	r.mu.RUnlock()
	if ok {
		return team, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another goroutine may have created it between the two locks
	if team, ok = r.teams[name]; ok {
		return team, nil
	}
	team = NewTeam(name, r.log)
	r.teams[name] = team
	r.log.Info(fmt.Sprintf("Team %s created", name))
	return team, nil
}

func (r *Registry) Get(name string) (*Team, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	team, ok := r.teams[name]
	return team, ok
}

// Remove unregisters the team and sends a remove packet to each of its
// viewers, so none keeps tracking a team that no longer exists.
// Holders of the *Team may keep using it.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	team, ok := r.teams[name]
	delete(r.teams, name)
	r.mu.Unlock()

	if !ok {
		return false
	}
	detached := team.detachViewers()
	r.log.Info(fmt.Sprintf("Team %s removed", name), "detached_viewers", detached)
	return true
}

// Names returns the registered team names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := lo.Keys(r.teams)
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.teams)
}
