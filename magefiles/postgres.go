// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Local Postgres container settings. The DSN printed by Up is what goes
// into dsn in config.yaml.
const (
	pgContainer = "brandly-postgres"
	pgImage     = "postgres:17"
	pgPassword  = "brandly"
	pgPort      = "5432"
)

// Postgres groups targets for a local Postgres container.
type Postgres mg.Namespace

// containerRuntime returns "podman" or "docker" if a working runtime
// is available, or "" if neither is usable.
func containerRuntime() string {
	for _, name := range []string{"podman", "docker"} {
		if _, err := exec.LookPath(name); err != nil {
			continue
		}
		if exec.Command(name, "info").Run() != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %s found on PATH but not usable (is the daemon running?)\n", name)
			continue
		}
		return name
	}
	return ""
}

// Up starts the Postgres container and prints its DSN.
func (Postgres) Up() error {
	rt := containerRuntime()
	if rt == "" {
		return errors.New("no container runtime found (need podman or docker)")
	}
	if err := sh.RunV(rt, "run", "-d",
		"--name", pgContainer,
		"-e", "POSTGRES_PASSWORD="+pgPassword,
		"-e", "POSTGRES_DB=brandly",
		"-p", pgPort+":5432",
		pgImage); err != nil {
		return err
	}
	fmt.Printf("postgres://postgres:%s@localhost:%s/brandly?sslmode=disable\n", pgPassword, pgPort)
	return nil
}

// Down stops and removes the Postgres container.
func (Postgres) Down() error {
	rt := containerRuntime()
	if rt == "" {
		return errors.New("no container runtime found (need podman or docker)")
	}
	return sh.RunV(rt, "rm", "-f", pgContainer)
}
