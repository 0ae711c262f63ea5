package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/chi-demo/app"

	"github.com/octoidm/keycloak-user-admin/pkg/authn"
	"github.com/octoidm/keycloak-user-admin/pkg/config"
	"github.com/octoidm/keycloak-user-admin/pkg/keycloak"
	"github.com/octoidm/keycloak-user-admin/pkg/users"
)

type Config struct {
	Jwt      config.JwtConfig
	Keycloak config.KeycloakConfig
	Auth     config.AuthConfig
}

func main() {
	godotenv.Load()

	cfg := Config{}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	kc := keycloak.NewClient(keycloak.Config{
		BaseURL:      cfg.Keycloak.BaseURL,
		Realm:        cfg.Keycloak.Realm,
		ClientID:     cfg.Keycloak.ClientID,
		ClientSecret: cfg.Keycloak.ClientSecret,
	})
	userService := users.NewUserService(kc)
	userHandle := users.NewHandle(userService)

	converter := authn.NewConverter(
		authn.WithPrincipalClaim(cfg.Auth.PrincipalClaim),
		authn.WithResourceID(cfg.Auth.ResourceID),
	)
	tokenAuth := jwtauth.New("HS256", []byte(cfg.Jwt.Secret), nil)

	adminAuthority := authn.AuthorityPrefix + cfg.Auth.AdminRole
	userAuthority := authn.AuthorityPrefix + cfg.Auth.UserRole

	myApp := app.Default()

	myApp.R.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))
		r.Use(converter.Middleware)

		r.Group(func(r chi.Router) {
			r.Use(authn.RequireAnyAuthority(adminAuthority))
			r.Route("/api/users", func(r chi.Router) {
				userHandle.RegisterRoutes(r)
			})
			r.Get("/api/hello", func(w http.ResponseWriter, r *http.Request) {
				render.PlainText(w, r, "hello user")
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authn.RequireAnyAuthority(userAuthority, adminAuthority))
			r.Get("/api/hello-2", func(w http.ResponseWriter, r *http.Request) {
				render.PlainText(w, r, "hello user 2")
			})
		})
	})

	slog.Info("Starting admin API", "realm", cfg.Keycloak.Realm, "keycloak", cfg.Keycloak.BaseURL)
	myApp.Run()
}
