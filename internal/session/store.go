package session

import (
	"context"
	"sync"

	"jobportal_web/internal/apiclient"
	"jobportal_web/internal/logger"
	"jobportal_web/internal/models"

	"golang.org/x/sync/singleflight"
)

// AuthAPI - auth-эндпоинты внешнего backend, нужные сессии
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*apiclient.AuthResult, error)
	GoogleLogin(ctx context.Context, idToken string) (*apiclient.AuthResult, error)
	SendOTP(ctx context.Context, fields apiclient.RegistrationFields) error
	VerifyOTP(ctx context.Context, email, otp string) (*apiclient.AuthResult, error)
	Profile(ctx context.Context, token string) (*models.User, error)
}

// State - снимок сессии для шаблонов и обработчиков
type State struct {
	Token           string
	User            *models.User
	Loading         bool
	IsAuthenticated bool
	ProfileComplete bool
}

// resolver - общий для всех Store: кэш + схлопывание параллельных запросов профиля
type resolver struct {
	api   AuthAPI
	cache *UserCache
	group singleflight.Group
}

func (r *resolver) resolve(ctx context.Context, token string, fresh bool) (*models.User, error) {
	if !fresh {
		if u, ok := r.cache.Get(token); ok {
			return u, nil
		}
	}
	v, err, _ := r.group.Do(token, func() (any, error) {
		u, err := r.api.Profile(ctx, token)
		if err != nil {
			return nil, err
		}
		r.cache.Set(token, u)
		return u, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.User).Clone(), nil
}

// Store - сессия одного браузера: токен (в ClientStorage) + пользователь (в памяти).
// Аутентифицирован тогда и только тогда, когда есть и токен, и пользователь.
type Store struct {
	mu      sync.Mutex
	res     *resolver
	storage ClientStorage

	token   string
	user    *models.User
	loading bool
	// generation растёт при каждой смене токена; результат FetchUser
	// для старого поколения отбрасывается
	generation uint64
}

// NewStore читает сохранённый токен и сразу пытается получить профиль
func NewStore(ctx context.Context, api AuthAPI, storage ClientStorage, cache *UserCache) *Store {
	return newStore(ctx, &resolver{api: api, cache: cache}, storage)
}

func newStore(ctx context.Context, res *resolver, storage ClientStorage) *Store {
	s := &Store{
		res:     res,
		storage: storage,
		token:   storage.Get(KeyToken),
		loading: true,
	}
	_ = s.FetchUser(ctx)
	return s
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Token:           s.token,
		User:            s.user.Clone(),
		Loading:         s.loading,
		IsAuthenticated: s.token != "" && s.user != nil,
		ProfileComplete: s.user.ProfileComplete(),
	}
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

// Storage - клиентское хранилище этого браузера
func (s *Store) Storage() ClientStorage {
	return s.storage
}

// FetchOption настраивает FetchUser
type FetchOption func(*fetchOptions)

type fetchOptions struct {
	fresh bool
}

// Fresh - мимо кэша (после сохранения профиля)
func Fresh() FetchOption {
	return func(o *fetchOptions) { o.fresh = true }
}

// FetchUser идемпотентен. Ошибка получения профиля приводит к Logout,
// чтобы сессия не осталась с токеном без пользователя.
func (s *Store) FetchUser(ctx context.Context, opts ...FetchOption) error {
	var o fetchOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	token := s.token
	gen := s.generation
	if token == "" {
		s.loading = false
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	user, err := s.res.resolve(ctx, token, o.fresh)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// токен сменился (login/logout), пока шёл запрос
		return nil
	}
	s.loading = false
	if err != nil {
		logger.CtxWarn(ctx, "Failed to fetch user, logging out", "error", err)
		s.logoutLocked()
		return err
	}
	s.user = user
	return nil
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	res, err := s.res.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(ctx, res)
}

func (s *Store) GoogleLogin(ctx context.Context, idToken string) error {
	res, err := s.res.api.GoogleLogin(ctx, idToken)
	if err != nil {
		return err
	}
	return s.establish(ctx, res)
}

// SendOTP - шаг 1 регистрации, сессию не меняет
func (s *Store) SendOTP(ctx context.Context, fields apiclient.RegistrationFields) error {
	return s.res.api.SendOTP(ctx, fields)
}

func (s *Store) VerifyOTP(ctx context.Context, email, otp string) error {
	res, err := s.res.api.VerifyOTP(ctx, email, otp)
	if err != nil {
		return err
	}
	return s.establish(ctx, res)
}

// establish сохраняет токен, подставляет пользователя из ответа и,
// так как токен сменился, заново получает профиль
func (s *Store) establish(ctx context.Context, res *apiclient.AuthResult) error {
	s.mu.Lock()
	s.generation++
	s.token = res.Token
	s.user = res.User.Clone()
	s.loading = false
	err := s.storage.Set(KeyToken, res.Token)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.FetchUser(ctx, Fresh())
}

// Logout - только локально: память, хранилище, кэш. Backend не вызывается.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutLocked()
}

func (s *Store) logoutLocked() {
	if s.token != "" {
		s.res.cache.Delete(s.token)
	}
	s.generation++
	s.token = ""
	s.user = nil
	s.loading = false
	_ = s.storage.Remove(KeyToken)
	for _, k := range userScopedKeys {
		_ = s.storage.Remove(k)
	}
}
