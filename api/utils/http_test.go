// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meterio/prize-auction/api/utils"
	"github.com/stretchr/testify/assert"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"bad request", utils.BadRequest(errors.New("bad")), http.StatusBadRequest},
		{"forbidden", utils.Forbidden(errors.New("no")), http.StatusForbidden},
		{"not found", utils.NotFound(errors.New("gone")), http.StatusNotFound},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := utils.WrapHandlerFunc(func(w http.ResponseWriter, req *http.Request) error {
				return tt.err
			})
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest("GET", "/", nil))
			assert.Equal(t, tt.status, rec.Code)
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), strings.TrimSpace(rec.Body.String()))
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	var v struct {
		Raw string `json:"raw"`
	}
	assert.NoError(t, utils.ParseJSON(strings.NewReader(`{"raw":"0x01"}`), &v))
	assert.Equal(t, "0x01", v.Raw)
	assert.Error(t, utils.ParseJSON(strings.NewReader(`{"raw":"0x01","extra":1}`), &v))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.NoError(t, utils.WriteJSON(rec, map[string]int{"a": 1}))
	assert.Equal(t, utils.JSONContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"a":1}`, rec.Body.String())
}
