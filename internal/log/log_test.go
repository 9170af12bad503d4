// go-addone
// Copyright (c) 2026 The OpenAccel Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(&buf, "warning"))
	defer func() { _ = Init(os.Stderr, "info") }()

	Error("e %d", 1)
	Warning("w")
	Info("i")
	Debug("d")

	out := buf.String()
	assert.Contains(t, out, ErrorPrefix+"e 1")
	assert.Contains(t, out, WarningPrefix+"w")
	assert.NotContains(t, out, InfoPrefix)
	assert.NotContains(t, out, DebugPrefix)
	assert.True(t, strings.Contains(out, LogPrefix))
}

func TestSetLevel(t *testing.T) {
	for _, name := range []string{"error", "warning", "info", "debug"} {
		assert.NoError(t, SetLevel(name))
	}
	err := SetLevel("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), HelpLevels)

	_ = SetLevel("info")
}
