// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yardmap/internal/platform/constants"
	"github.com/taibuivan/yardmap/internal/platform/sec"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func memoryEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("BROADCAST_DRIVER", "memory")
}

func TestSeed_InitializesGridAndLegend(t *testing.T) {
	memoryEnv(t)

	out, err := execute(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "grid 60x43 (2580 cells created)")
	assert.Contains(t, out, "11 categories created, 0 already present")
}

func TestResize_RequiresBounds(t *testing.T) {
	memoryEnv(t)

	_, err := execute(t, "resize", "--length", "3")
	assert.ErrorContains(t, err, "width")

	out, err := execute(t, "resize", "--length", "3", "--width", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "grid 3x2: 6 cells created, 0 removed, 0 categories affected")

	_, err = execute(t, "resize", "--length", "0", "--width", "2")
	assert.Error(t, err)
}

func TestToken_MintsVerifiableToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")
	require.NoError(t, os.WriteFile(privatePath,
		pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}), 0o600))
	require.NoError(t, os.WriteFile(publicPath,
		pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER}), 0o600))

	t.Setenv("JWT_PRIVATE_KEY_PATH", privatePath)
	t.Setenv("JWT_PUBLIC_KEY_PATH", publicPath)

	out, err := execute(t, "token", "--user", "op-7", "--role", "admin", "--ttl", "1h")
	require.NoError(t, err)

	verifier, err := sec.NewTokenService("", publicPath, constants.AuthIssuer)
	require.NoError(t, err)
	claims, err := verifier.VerifyToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "op-7", claims.UserID)
	assert.Equal(t, "op-7", claims.Username)
	assert.Equal(t, string(sec.RoleAdmin), claims.Role)
}

func TestToken_RejectsUnknownRole(t *testing.T) {
	_, err := execute(t, "token", "--user", "op-7", "--role", "root")
	assert.ErrorContains(t, err, "unknown role")
}
