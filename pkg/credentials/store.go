package credentials

import (
	"sync"

	"github.com/natserract/hs/pkg/config"
	"go.uber.org/zap"
)

// DefaultProviderName is the name the config-driven provider registers
// under; the CRM client resolves it unless told otherwise.
const DefaultProviderName = "hubspot"

// Store is a registry mapping provider names to registered Provider
// instances. It starts empty and is mutated only through Register; each
// caller constructs its own Store rather than sharing an implicit global.
type Store struct {
	mu        sync.RWMutex
	providers map[string]Provider
	logger    *zap.Logger
}

func NewStore(logger *zap.Logger) *Store {
	return &Store{
		providers: make(map[string]Provider),
		logger:    logger,
	}
}

// Register stores the provider under its name. Re-registering under the
// same name replaces the prior provider: last write wins.
func (s *Store) Register(p Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, ok := s.providers[p.Name()]; ok {
		s.logger.Info("Replacing registered credential provider",
			zap.String("name", p.Name()),
			zap.String("prior", typeName(prior)),
			zap.String("new", typeName(p)))
	}
	s.providers[p.Name()] = p
}

// Get returns the provider registered under name, or a LookupError when
// none was ever registered.
func (s *Store) Get(name string) (Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.providers[name]
	if !ok {
		return nil, &LookupError{Name: name}
	}
	return p, nil
}

// StoreFromConfig builds a Store from the environment-driven config:
// an OAuth2 provider when a complete OAuth2 credential set is configured,
// otherwise a static key provider from HUBSPOT_API_KEY. Either registers
// under DefaultProviderName.
func StoreFromConfig(cfg *config.Config, logger *zap.Logger) *Store {
	store := NewStore(logger)

	if cfg.HasOAuth2() {
		store.Register(NewOAuth2Provider(DefaultProviderName, OAuth2Config{
			TokenURI:     cfg.TokenURI,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RefreshToken: cfg.RefreshToken,
		}, logger))
		return store
	}

	store.Register(NewStaticKeyProvider(DefaultProviderName, cfg.APIKey))
	return store
}

func typeName(p Provider) string {
	switch p.(type) {
	case *StaticKeyProvider:
		return "static_key"
	case *OAuth2Provider:
		return "oauth2"
	default:
		return "custom"
	}
}
