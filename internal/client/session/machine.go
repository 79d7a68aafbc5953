// Package session implements the login state machine of the client:
// Anonymous, AwaitingPin and Authenticated. Sessions live in memory only,
// so a new Machine always starts Anonymous.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/logging"
	"github.com/dmitrijs2005/tripshare/internal/models"
)

// DefaultMaxAttempts is the number of failed PIN checks tolerated for one
// selected profile before the machine falls back to Anonymous.
const DefaultMaxAttempts = 5

var (
	ErrTooManyAttempts   = errors.New("too many failed attempts")
	ErrWrongMode         = errors.New("operation not available in this login mode")
	ErrInvalidTransition = errors.New("invalid session transition")
)

type State int

const (
	Anonymous State = iota
	AwaitingPin
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case AwaitingPin:
		return "awaiting-pin"
	case Authenticated:
		return "authenticated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Mode selects the login presentation, driven by the userListViewEnabled
// setting.
type Mode int

const (
	ModeForm Mode = iota
	ModeList
)

func ModeFor(settings models.SystemSettings) Mode {
	if settings.UserListViewEnabled {
		return ModeList
	}
	return ModeForm
}

// Authenticator verifies an identifier/PIN pair against the backend.
type Authenticator interface {
	Login(ctx context.Context, identifier, pin string) (models.User, error)
}

// AuthenticatedFunc runs once per successful login, after the machine has
// entered Authenticated. epoch identifies the new session.
type AuthenticatedFunc func(ctx context.Context, user models.User, epoch uint64)

// Snapshot is a read-only view of the machine.
type Snapshot struct {
	State      State
	Candidate  models.User // set in AwaitingPin
	User       models.User // set in Authenticated
	Identifier string      // last identifier typed in form mode, kept after a failure
	Err        error
	Failures   int
	Epoch      uint64
}

type Machine struct {
	mu sync.Mutex

	auth        Authenticator
	log         logging.Logger
	maxAttempts int
	onAuth      AuthenticatedFunc

	mode       Mode
	state      State
	candidate  models.User
	user       models.User
	identifier string
	err        error
	failures   int
	epoch      uint64
}

// New returns a machine in the Anonymous state. maxAttempts <= 0 selects
// DefaultMaxAttempts.
func New(auth Authenticator, maxAttempts int, log logging.Logger) *Machine {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Machine{
		auth:        auth,
		log:         log.With("module", "session"),
		maxAttempts: maxAttempts,
	}
}

// OnAuthenticated installs the hook fired on entering Authenticated.
func (m *Machine) OnAuthenticated(fn AuthenticatedFunc) {
	m.mu.Lock()
	m.onAuth = fn
	m.mu.Unlock()
}

func (m *Machine) SetMode(mode Mode) {
	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()
}

func (m *Machine) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:      m.state,
		Candidate:  m.candidate,
		User:       m.user,
		Identifier: m.identifier,
		Err:        m.err,
		Failures:   m.failures,
		Epoch:      m.epoch,
	}
}

// User returns the authenticated user.
func (m *Machine) User() (models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Authenticated {
		return models.User{}, false
	}
	return m.user, true
}

// Epoch identifies the current session. It changes on every login and
// logout.
func (m *Machine) Epoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

// IsCurrent reports whether epoch still names the live authenticated
// session. Loads issued under an older epoch must be discarded.
func (m *Machine) IsCurrent(epoch uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Authenticated && m.epoch == epoch
}

// SelectProfile moves Anonymous to AwaitingPin for user. List mode only.
func (m *Machine) SelectProfile(user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mode != ModeList {
		return ErrWrongMode
	}
	if m.state != Anonymous {
		return fmt.Errorf("%w: select profile in %s", ErrInvalidTransition, m.state)
	}
	m.state = AwaitingPin
	m.candidate = user
	m.err = nil
	m.failures = 0
	return nil
}

// Cancel abandons the selected profile.
func (m *Machine) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != AwaitingPin {
		return fmt.Errorf("%w: cancel in %s", ErrInvalidTransition, m.state)
	}
	m.reset()
	return nil
}

// SubmitPin verifies pin for the selected profile. On an authentication
// failure the machine stays in AwaitingPin with the error attached, until
// the retry cap sends it back to Anonymous.
func (m *Machine) SubmitPin(ctx context.Context, pin string) error {
	m.mu.Lock()
	if m.state != AwaitingPin {
		st := m.state
		m.mu.Unlock()
		return fmt.Errorf("%w: submit pin in %s", ErrInvalidTransition, st)
	}
	if err := common.ValidatePin(pin); err != nil {
		m.err = err
		m.mu.Unlock()
		return err
	}
	candidate, epoch := m.candidate, m.epoch
	m.mu.Unlock()

	user, err := m.auth.Login(ctx, candidate.Identifier(), pin)

	m.mu.Lock()
	if m.state != AwaitingPin || m.epoch != epoch || m.candidate.ID != candidate.ID {
		m.mu.Unlock()
		return fmt.Errorf("%w: session changed during verification", ErrInvalidTransition)
	}
	if err != nil {
		err = m.failLocked(err)
		m.mu.Unlock()
		return err
	}
	return m.authenticateLocked(ctx, user)
}

// SubmitForm logs in directly from Anonymous. Form mode only.
func (m *Machine) SubmitForm(ctx context.Context, identifier, pin string) error {
	identifier = strings.TrimSpace(identifier)

	m.mu.Lock()
	if m.mode != ModeForm {
		m.mu.Unlock()
		return ErrWrongMode
	}
	if m.state != Anonymous {
		st := m.state
		m.mu.Unlock()
		return fmt.Errorf("%w: submit form in %s", ErrInvalidTransition, st)
	}
	m.identifier = identifier
	if identifier == "" {
		m.err = fmt.Errorf("%w: identifier is required", common.ErrValidation)
		err := m.err
		m.mu.Unlock()
		return err
	}
	if err := common.ValidatePin(pin); err != nil {
		m.err = err
		m.mu.Unlock()
		return err
	}
	epoch := m.epoch
	m.mu.Unlock()

	user, err := m.auth.Login(ctx, identifier, pin)

	m.mu.Lock()
	if m.state != Anonymous || m.epoch != epoch {
		m.mu.Unlock()
		return fmt.Errorf("%w: session changed during verification", ErrInvalidTransition)
	}
	if err != nil {
		m.err = err
		m.mu.Unlock()
		m.log.Info(ctx, "form login failed", "identifier", identifier, "error", err)
		return err
	}
	return m.authenticateLocked(ctx, user)
}

// Logout returns to Anonymous from any state and invalidates in-flight loads.
func (m *Machine) Logout() {
	m.mu.Lock()
	wasAuth := m.state == Authenticated
	m.reset()
	m.epoch++
	m.mu.Unlock()

	if wasAuth {
		m.log.Info(context.Background(), "logged out")
	}
}

// Update replaces the stored record of the authenticated user, e.g. after a
// profile edit. It is a no-op for any other user.
func (m *Machine) Update(user models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Authenticated && m.user.ID == user.ID {
		m.user = user
	}
}

// failLocked records a failed verification. The caller holds m.mu.
func (m *Machine) failLocked(err error) error {
	if !errors.Is(err, common.ErrAuthentication) {
		m.err = err
		return err
	}
	m.failures++
	if m.failures >= m.maxAttempts {
		name := m.candidate.Name
		m.reset()
		m.err = fmt.Errorf("%w for %s", ErrTooManyAttempts, name)
		return m.err
	}
	m.err = err
	return err
}

// authenticateLocked enters Authenticated, releases m.mu and fires the hook.
func (m *Machine) authenticateLocked(ctx context.Context, user models.User) error {
	m.state = Authenticated
	m.user = user
	m.candidate = models.User{}
	m.identifier = ""
	m.err = nil
	m.failures = 0
	m.epoch++
	epoch, hook := m.epoch, m.onAuth
	m.mu.Unlock()

	m.log.Info(ctx, "logged in", "user_id", user.ID, "role", user.Role.String())
	if hook != nil {
		hook(ctx, user, epoch)
	}
	return nil
}

func (m *Machine) reset() {
	m.state = Anonymous
	m.candidate = models.User{}
	m.user = models.User{}
	m.identifier = ""
	m.err = nil
	m.failures = 0
}
