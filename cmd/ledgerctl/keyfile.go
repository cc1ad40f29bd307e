// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/atomicledger/ledger/lib/sealed"
	"github.com/atomicledger/ledger/lib/secret"
	"github.com/atomicledger/ledger/lib/sign"
)

// registerKeySourceFlags adds the three flags every subcommand that
// signs something shares, returning a keySource whose fields are
// populated once flagSet.Parse runs.
func registerKeySourceFlags(flagSet *pflag.FlagSet) *keySource {
	src := &keySource{}
	flagSet.StringVar(&src.keyFile, "key-file", "", "path to a hex-encoded signing seed (prompts interactively if omitted)")
	flagSet.StringVar(&src.sealedKeyFile, "sealed-key-file", "", "path to an age-sealed signing seed (see lib/sealed); requires --recovery-key-file")
	flagSet.StringVar(&src.recoveryKeyFile, "recovery-key-file", "", "path to the age private key that unseals --sealed-key-file")
	return src
}

// keySource bundles the flag values that select where a signing seed
// comes from: a plaintext hex key file, an age-escrowed sealed key
// file paired with a recovery private key, or an interactive prompt
// when neither is set.
type keySource struct {
	keyFile         string
	sealedKeyFile   string
	recoveryKeyFile string
}

// loadSigner returns an Ed25519Signer seeded from src. Exactly one of
// src.keyFile or src.sealedKeyFile is expected; if neither is set, the
// seed is requested from an interactive hex prompt. The decoded seed
// is copied into a secret.Buffer and its heap copy zeroed; the hex text
// it was decoded from (file bytes, prompt input or unsealed plaintext
// string) is not zeroed.
func loadSigner(src keySource) (*sign.Ed25519Signer, error) {
	var seed []byte
	var err error
	switch {
	case src.sealedKeyFile != "":
		seed, err = unsealSeed(src.sealedKeyFile, src.recoveryKeyFile)
	case src.keyFile != "":
		var raw []byte
		raw, err = os.ReadFile(src.keyFile)
		if err == nil {
			seed, err = hex.DecodeString(trimNewline(string(raw)))
		}
		if err != nil {
			err = fmt.Errorf("reading key file: %w", err)
		}
	default:
		seed, err = promptHexSeed()
	}
	if err != nil {
		return nil, err
	}

	buf, err := secret.NewFromBytes(seed)
	if err != nil {
		return nil, err
	}
	return sign.NewEd25519Signer(buf)
}

// unsealSeed decrypts an age-escrowed signing seed: sealedKeyFile
// holds the base64 ciphertext produced by [sealed.Encrypt], and
// recoveryKeyFile holds the age private key (AGE-SECRET-KEY-1...) of
// one of its recipients. The decrypted plaintext is expected to be
// the hex-encoded seed, matching the plaintext hex key file format.
func unsealSeed(sealedKeyFile, recoveryKeyFile string) ([]byte, error) {
	if recoveryKeyFile == "" {
		return nil, fmt.Errorf("--recovery-key-file is required with --sealed-key-file")
	}

	ciphertext, err := os.ReadFile(sealedKeyFile)
	if err != nil {
		return nil, fmt.Errorf("reading sealed key file: %w", err)
	}

	privateKeyRaw, err := os.ReadFile(recoveryKeyFile)
	if err != nil {
		return nil, fmt.Errorf("reading recovery key file: %w", err)
	}
	privateKeyBuf, err := secret.NewFromBytes(privateKeyRaw)
	if err != nil {
		return nil, fmt.Errorf("protecting recovery key: %w", err)
	}
	defer privateKeyBuf.Close()

	plaintext, err := sealed.Decrypt(trimNewline(string(ciphertext)), privateKeyBuf)
	if err != nil {
		return nil, fmt.Errorf("unsealing signing seed: %w", err)
	}
	defer plaintext.Close()

	seed, err := hex.DecodeString(trimNewline(plaintext.String()))
	if err != nil {
		return nil, fmt.Errorf("unsealed seed must be hex-encoded: %w", err)
	}
	return seed, nil
}

func promptHexSeed() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("no terminal available for interactive key prompt (use --key-file)")
	}

	fmt.Fprint(os.Stderr, "Signing seed (hex): ")
	line, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading seed: %w", err)
	}

	seed, err := hex.DecodeString(trimNewline(string(line)))
	if err != nil {
		return nil, fmt.Errorf("seed must be hex-encoded: %w", err)
	}
	return seed, nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
