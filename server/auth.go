// Copyright 2026 SpeakWise
// SPDX-License-Identifier: BUSL-1.1

package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issueToken signs a short-lived HS256 token for a trainee
func (a *App) issueToken(actorID string, now time.Time) (string, time.Time, error) {
	if len(a.cfg.JWTSecret) == 0 {
		return "", time.Time{}, fmt.Errorf("JWT_SECRET not configured")
	}

	expiresAt := now.Add(a.cfg.TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": actorID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	})

	signed, err := token.SignedString(a.cfg.JWTSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// actorFromRequest extracts the authenticated actor identifier from the
// Authorization header. An absent, malformed, or expired token yields an
// empty actor: the caller is then attributed by network address instead of
// being rejected, because actor resolution here exists for rate-limit
// keying and usage attribution, not access control.
func (a *App) actorFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || len(a.cfg.JWTSecret) == 0 {
		return ""
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.cfg.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}
