// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

// Package public holds the static assets served by the API.
package public

import (
	_ "embed"
)

// IndexHTML is the single-page query form.
//
//go:embed index.html
var IndexHTML []byte
