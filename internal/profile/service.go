package profile

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/buyzaar/storefront/internal/cart"
	"github.com/buyzaar/storefront/pkg/config"
	"github.com/buyzaar/storefront/pkg/enums"
	pkgerrors "github.com/buyzaar/storefront/pkg/errors"
	"github.com/buyzaar/storefront/pkg/logger"
)

// tryOnHistoryLimit caps how many sessions the history retains; older
// entries fall off the end.
const tryOnHistoryLimit = 20

// Address is a shipping address attached to an account.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// User is the authenticated account snapshot.
type User struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	FirstName           string  `json:"firstName"`
	LastName            string  `json:"lastName"`
	Phone               string  `json:"phone"`
	AvatarURL           string  `json:"avatarUrl"`
	Address             Address `json:"address"`
	PasswordLastChanged string  `json:"passwordLastChanged"`
}

// Preferences captures the shopper's styling choices used by suggestions.
type Preferences struct {
	StylePreferences []string          `json:"stylePreferences"`
	SizePreferences  map[string]string `json:"sizePreferences"`
	ColorPreferences []string          `json:"colorPreferences"`
}

// TryOnSession records one virtual try-on.
type TryOnSession struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	CapturedAt  time.Time `json:"capturedAt"`
}

// Order is a completed checkout. Orders live for the session only and are
// not part of the persisted profile state.
type Order struct {
	ID       string          `json:"id"`
	Items    []cart.LineItem `json:"items"`
	Totals   cart.Totals     `json:"totals"`
	PlacedAt time.Time       `json:"placedAt"`
}

// RegisterInput is the new-account payload.
type RegisterInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
}

// ProfilePatch carries partial profile updates; nil fields are left as-is.
type ProfilePatch struct {
	Name      *string  `json:"name"`
	FirstName *string  `json:"firstName"`
	LastName  *string  `json:"lastName"`
	Email     *string  `json:"email"`
	Phone     *string  `json:"phone"`
	Address   *Address `json:"address"`
}

// persistedState is the subset of the profile written to storage. Orders
// are deliberately excluded.
type persistedState struct {
	User         *User          `json:"user"`
	AvatarData   string         `json:"avatarData"`
	Preferences  Preferences    `json:"preferences"`
	TryOnHistory []TryOnSession `json:"tryOnHistory"`
}

// StateStore is what the profile needs from the persistence layer.
type StateStore interface {
	Load(ctx context.Context, key config.StorageKey, dest any) (bool, error)
	Save(ctx context.Context, key config.StorageKey, value any) error
}

// ServiceParams groups dependencies for the profile service.
type ServiceParams struct {
	Store  StateStore
	Logger *logger.Logger
}

// Service owns the account, styling preferences, try-on history and the
// persisted theme choice.
type Service struct {
	mu         sync.Mutex
	user       *User
	avatarData string
	prefs      Preferences
	tryOns     []TryOnSession
	orders     []Order
	theme      enums.Theme
	store      StateStore
	logg       *logger.Logger
}

// NewService builds a signed-out profile with the dark theme.
func NewService(params ServiceParams) *Service {
	return &Service{
		theme: enums.ThemeDark,
		store: params.Store,
		logg:  params.Logger,
	}
}

// Hydrate restores the persisted profile and theme. Missing or corrupt
// state leaves the signed-out defaults in place.
func (s *Service) Hydrate(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	var state persistedState
	found, err := s.store.Load(ctx, config.StorageKeyUser, &state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeServer, err, "load profile state")
	}

	var rawTheme string
	themeFound, err := s.store.Load(ctx, config.StorageKeyTheme, &rawTheme)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeServer, err, "load theme state")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if found {
		s.user = state.User
		s.avatarData = state.AvatarData
		s.prefs = state.Preferences
		s.tryOns = state.TryOnHistory
	}
	if themeFound {
		if theme, parseErr := enums.ParseTheme(rawTheme); parseErr == nil {
			s.theme = theme
		}
	}
	return nil
}

// CheckAuthStatus reports whether a user is signed in.
func (s *Service) CheckAuthStatus() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// User returns the current account, if any.
func (s *Service) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// Login signs in with a fixed demo account bound to the given email. There
// is no real credential check behind it.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	if email == "" || password == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user := User{
		ID:        "user-1",
		Name:      "John Doe",
		Email:     email,
		FirstName: "John",
		LastName:  "Doe",
		Phone:     "+1 (555) 123-4567",
		AvatarURL: avatarURL("John", "Doe"),
		Address: Address{
			Street:  "123 Main St",
			City:    "New York",
			State:   "NY",
			ZipCode: "10001",
			Country: "US",
		},
		PasswordLastChanged: "2025-01-15",
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	if err := s.persistLocked(ctx); err != nil {
		return User{}, err
	}
	return user, nil
}

// Register creates a demo account from the given details and signs it in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	if input.FirstName == "" || input.LastName == "" || input.Email == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "first name, last name and email are required")
	}

	user := User{
		ID:                  "user-" + uuid.NewString(),
		Name:                input.FirstName + " " + input.LastName,
		Email:               input.Email,
		FirstName:           input.FirstName,
		LastName:            input.LastName,
		Phone:               input.Phone,
		AvatarURL:           avatarURL(input.FirstName, input.LastName),
		PasswordLastChanged: time.Now().UTC().Format("2006-01-02"),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	if err := s.persistLocked(ctx); err != nil {
		return User{}, err
	}
	return user, nil
}

// Logout clears the account and avatar. Preferences and try-on history
// survive sign-out.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.avatarData = ""
	return s.persistLocked(ctx)
}

// UpdateProfile merges the non-nil patch fields into the signed-in account.
func (s *Service) UpdateProfile(ctx context.Context, patch ProfilePatch) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}

	if patch.Name != nil {
		s.user.Name = *patch.Name
	}
	if patch.FirstName != nil {
		s.user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		s.user.LastName = *patch.LastName
	}
	if patch.Email != nil {
		s.user.Email = *patch.Email
	}
	if patch.Phone != nil {
		s.user.Phone = *patch.Phone
	}
	if patch.Address != nil {
		s.user.Address = *patch.Address
	}

	if err := s.persistLocked(ctx); err != nil {
		return User{}, err
	}
	return *s.user, nil
}

// SetAvatarData stores the opaque body-scan payload used by try-on views.
func (s *Service) SetAvatarData(ctx context.Context, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.avatarData = data
	return s.persistLocked(ctx)
}

// AvatarData returns the stored body-scan payload.
func (s *Service) AvatarData() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.avatarData
}

// Preferences returns a copy of the styling preferences.
func (s *Service) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyPreferences(s.prefs)
}

// AddStylePreference appends a style tag. Duplicates are ignored.
func (s *Service) AddStylePreference(ctx context.Context, style string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.prefs.StylePreferences {
		if existing == style {
			return nil
		}
	}
	s.prefs.StylePreferences = append(s.prefs.StylePreferences, style)
	return s.persistLocked(ctx)
}

// RemoveStylePreference drops a style tag. Absent tags are a no-op.
func (s *Service) RemoveStylePreference(ctx context.Context, style string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.prefs.StylePreferences {
		if existing == style {
			s.prefs.StylePreferences = append(s.prefs.StylePreferences[:i], s.prefs.StylePreferences[i+1:]...)
			return s.persistLocked(ctx)
		}
	}
	return nil
}

// UpdateSizePreferences merges the given per-category sizes into the
// existing map.
func (s *Service) UpdateSizePreferences(ctx context.Context, sizes map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs.SizePreferences == nil {
		s.prefs.SizePreferences = map[string]string{}
	}
	for category, size := range sizes {
		s.prefs.SizePreferences[category] = size
	}
	return s.persistLocked(ctx)
}

// SetColorPreferences replaces the preferred color list.
func (s *Service) SetColorPreferences(ctx context.Context, colors []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.ColorPreferences = append([]string(nil), colors...)
	return s.persistLocked(ctx)
}

// AddTryOn prepends a session to the history, keeping only the most
// recent entries.
func (s *Service) AddTryOn(ctx context.Context, session TryOnSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tryOns = append([]TryOnSession{session}, s.tryOns...)
	if len(s.tryOns) > tryOnHistoryLimit {
		s.tryOns = s.tryOns[:tryOnHistoryLimit]
	}
	return s.persistLocked(ctx)
}

// TryOnHistory returns the sessions, newest first.
func (s *Service) TryOnHistory() []TryOnSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]TryOnSession, len(s.tryOns))
	copy(out, s.tryOns)
	return out
}

// AddOrder prepends a completed order.
func (s *Service) AddOrder(order Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]Order{order}, s.orders...)
}

// Orders returns the completed orders, newest first.
func (s *Service) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Theme returns the active presentation theme.
func (s *Service) Theme() enums.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme stores the presentation theme.
func (s *Service) SetTheme(ctx context.Context, theme enums.Theme) error {
	if !theme.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid theme %q", theme))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return s.persistThemeLocked(ctx)
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *Service) ToggleTheme(ctx context.Context) (enums.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.theme == enums.ThemeDark {
		s.theme = enums.ThemeLight
	} else {
		s.theme = enums.ThemeDark
	}
	return s.theme, s.persistThemeLocked(ctx)
}

func (s *Service) persistLocked(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	state := persistedState{
		User:         s.user,
		AvatarData:   s.avatarData,
		Preferences:  s.prefs,
		TryOnHistory: s.tryOns,
	}
	if state.TryOnHistory == nil {
		state.TryOnHistory = []TryOnSession{}
	}
	if err := s.store.Save(ctx, config.StorageKeyUser, state); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "persist profile state", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeServer, err, "persist profile state")
	}
	return nil
}

func (s *Service) persistThemeLocked(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, config.StorageKeyTheme, s.theme.String()); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "persist theme state", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeServer, err, "persist theme state")
	}
	return nil
}

func copyPreferences(prefs Preferences) Preferences {
	out := Preferences{
		StylePreferences: append([]string(nil), prefs.StylePreferences...),
		ColorPreferences: append([]string(nil), prefs.ColorPreferences...),
	}
	if prefs.SizePreferences != nil {
		out.SizePreferences = make(map[string]string, len(prefs.SizePreferences))
		for k, v := range prefs.SizePreferences {
			out.SizePreferences[k] = v
		}
	}
	return out
}

func avatarURL(firstName, lastName string) string {
	name := url.QueryEscape(firstName + "+" + lastName)
	return "https://ui-avatars.com/api/?name=" + name + "&background=random"
}
