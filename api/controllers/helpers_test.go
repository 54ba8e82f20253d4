package controllers

import "github.com/angelmondragon/notewell-backend/pkg/config"

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test"}, Session: config.SessionConfig{CookieName: "token"}}
}
