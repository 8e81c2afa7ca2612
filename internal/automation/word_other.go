// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !windows

package automation

import "fmt"

// Start always fails: COM automation exists only on Windows.
func (w *Word) Start(visible bool) (Session, error) {
	return nil, fmt.Errorf("starting %s: %w", wordProgID, ErrUnsupported)
}
