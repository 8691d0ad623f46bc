// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package upload sends rendered pages to the remote asset service and
// collects the primary identifier of each page.
//
// The service is asynchronous: a submission returns an operation handle that
// is polled at a fixed interval until it reports completion. A failed
// submission or poll restarts the whole per-page upload after an exponential
// backoff, up to a bounded number of attempts.
package upload

import "context"

// Page is one rendered page to upload.
type Page struct {
	Key         string // artifact key, e.g. "asset/Default_24_1/page0.png"
	Path        string // file on disk
	DisplayName string
}

// Status is the state of a remote operation.
type Status struct {
	Done    bool
	AssetID int64
}

// Client is the remote asset service contract.
type Client interface {
	// Submit starts an asset creation and returns its operation id.
	Submit(ctx context.Context, page Page) (string, error)
	// Operation reports the state of a previously submitted operation.
	Operation(ctx context.Context, id string) (Status, error)
}
