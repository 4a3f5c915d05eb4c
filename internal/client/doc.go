// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client assembles the offline client: local storage, the server
// adapter, client services, the terminal UI and background workers.
package client
