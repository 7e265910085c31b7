// Copyright 2026 OdooForge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package rpc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kolo/xmlrpc"
)

// FaultCategory classifies an application-level rejection returned by Odoo.
// Faults are terminal: retrying the same call yields the same rejection.
type FaultCategory string

const (
	FaultAccessDenied  FaultCategory = "AccessDenied"
	FaultAccessError   FaultCategory = "AccessError"
	FaultMissingRecord FaultCategory = "MissingError"
	FaultValidation    FaultCategory = "ValidationError"
	FaultUserError     FaultCategory = "UserError"
	FaultUnique        FaultCategory = "UniqueViolation"
	FaultForeignKey    FaultCategory = "ForeignKeyViolation"
	FaultUnknown       FaultCategory = "Unknown"
)

// faultSuggestions maps fault categories to actionable hints surfaced to the
// caller alongside the raw fault string.
var faultSuggestions = map[FaultCategory]string{
	FaultAccessDenied:  "Check credentials or user permissions.",
	FaultAccessError:   "Current user lacks permission. Try admin or check access rights.",
	FaultMissingRecord: "The record may have been deleted. Refresh your data.",
	FaultValidation:    "A required field is missing or invalid. Check constraints.",
	FaultUserError:     "Operation not allowed in current state. Check workflow.",
	FaultUnique:        "A record with this value already exists.",
	FaultForeignKey:    "Record is referenced by others. Remove dependents first.",
	FaultUnknown:       "Check the instance logs for details.",
}

// Fault is an application-level rejection from the remote instance. It is
// never retried by the client.
type Fault struct {
	Model    string
	Method   string
	Category FaultCategory
	Code     int
	Message  string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("odoo fault on %s.%s (%s): %s", f.Model, f.Method, f.Category, f.Message)
}

// Suggestion returns a human hint for resolving this fault category.
func (f *Fault) Suggestion() string {
	if s, ok := faultSuggestions[f.Category]; ok {
		return s
	}
	return faultSuggestions[FaultUnknown]
}

// AuthError means the remote instance explicitly rejected the credentials.
// Retrying with the same credentials cannot succeed.
type AuthError struct {
	Database string
	Username string
	Message  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for user %q on database %q: %s",
		e.Username, e.Database, e.Message)
}

// ConnError is a transport-level failure: the endpoint was unreachable, the
// protocol broke, or retries were exhausted. The wrapped error is the last
// transport error observed.
type ConnError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *ConnError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("cannot reach odoo at %s after %d attempts: %v", e.URL, e.Attempts, e.Err)
	}
	return fmt.Sprintf("cannot reach odoo at %s: %v", e.URL, e.Err)
}

func (e *ConnError) Unwrap() error { return e.Err }

// classifyFault maps an XML-RPC fault string to a category by the exception
// class names Odoo embeds in its fault payloads.
func classifyFault(model, method string, code int, faultString string) *Fault {
	category := FaultUnknown
	for _, c := range []FaultCategory{
		FaultAccessDenied, FaultAccessError, FaultMissingRecord,
		FaultValidation, FaultUserError, FaultUnique, FaultForeignKey,
	} {
		if strings.Contains(faultString, string(c)) {
			category = c
			break
		}
	}
	if category == FaultUnknown {
		// Raw postgres messages leak through when the ORM did not wrap them.
		switch {
		case strings.Contains(faultString, "unique constraint"):
			category = FaultUnique
		case strings.Contains(faultString, "foreign key constraint"):
			category = FaultForeignKey
		}
	}
	return &Fault{
		Model:    model,
		Method:   method,
		Category: category,
		Code:     code,
		Message:  faultString,
	}
}

// asFault extracts an XML-RPC fault from an error, whether the codec returned
// it by value or by pointer.
func asFault(err error) (xmlrpc.FaultError, bool) {
	var fe xmlrpc.FaultError
	if errors.As(err, &fe) {
		return fe, true
	}
	var fep *xmlrpc.FaultError
	if errors.As(err, &fep) && fep != nil {
		return *fep, true
	}
	return xmlrpc.FaultError{}, false
}
