package identityprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/notewell-backend/pkg/config"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// ErrInvalidToken reports that the provider refused the access token.
var ErrInvalidToken = errors.New("identity provider rejected access token")

// Profile is the subset of provider account data used to sign someone in.
type Profile struct {
	Subject   string
	Email     string
	Name      string
	AvatarURL string
}

// ProfileFetcher exchanges a provider access token for the account profile.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

// Google resolves access tokens against the Google userinfo endpoint.
type Google struct {
	endpoint  string
	transport http.RoundTripper
	timeout   time.Duration
}

// Option configures optional provider behavior.
type Option func(*Google)

// WithEndpoint overrides the API root used for the userinfo call.
func WithEndpoint(endpoint string) Option {
	return func(g *Google) {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			if !strings.HasSuffix(trimmed, "/") {
				trimmed += "/"
			}
			g.endpoint = trimmed
		}
	}
}

// WithTransport overrides the base HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(g *Google) {
		if rt != nil {
			g.transport = rt
		}
	}
}

func NewGoogle(cfg config.IdentityProviderConfig, opts ...Option) *Google {
	g := &Google{
		transport: http.DefaultTransport,
		timeout:   cfg.Timeout,
	}
	if g.timeout <= 0 {
		g.timeout = 10 * time.Second
	}
	WithEndpoint(cfg.UserInfoEndpoint)(g)
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// FetchProfile returns ErrInvalidToken when Google answers with a 4xx status.
// Any other failure is returned wrapped.
func (g *Google) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, ErrInvalidToken
	}

	httpClient := &http.Client{
		Timeout: g.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
			Base:   g.transport,
		},
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if g.endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.endpoint))
	}

	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init google oauth2 service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 {
			return nil, fmt.Errorf("%w: status %d", ErrInvalidToken, apiErr.Code)
		}
		return nil, fmt.Errorf("fetch google userinfo: %w", err)
	}

	return &Profile{
		Subject:   info.Id,
		Email:     strings.TrimSpace(info.Email),
		Name:      strings.TrimSpace(info.Name),
		AvatarURL: strings.TrimSpace(info.Picture),
	}, nil
}
