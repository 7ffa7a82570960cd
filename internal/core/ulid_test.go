// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lantern Contributors

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanternmush/lantern/pkg/errutil"
)

func TestNewConnID(t *testing.T) {
	id1 := NewConnID()
	id2 := NewConnID()

	assert.NotEqual(t, id1, id2)
	assert.Less(t, id1.String(), id2.String(), "later connections sort after earlier ones")
}

func TestParseConnID(t *testing.T) {
	original := NewConnID()
	parsed, err := ParseConnID(original.String())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)

	_, err = ParseConnID("invalid")
	errutil.AssertErrorCode(t, err, "INVALID_CONN_ID")
}
