// Copyright 2023 The Compomics Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package errors

import "errors"

var (
	ErrNotFound        = errors.New("object not found")
	ErrClosed          = errors.New("the database connection is closed")
	ErrUnknownClass    = errors.New("unknown object class")
	ErrInvalidRecord   = errors.New("invalid record")
	ErrInvalidObjectID = errors.New("invalid object id")

	ErrFileNotFound = errors.New("file not found")

	ErrConflictingPTM  = errors.New("conflicting modification name")
	ErrUnknownPTM      = errors.New("unknown modification")
	ErrUnknownEnzyme   = errors.New("unknown enzyme")
	ErrInvalidEnzymeID = errors.New("invalid enzyme id")
	ErrInvalidSequence = errors.New("invalid sequence")

	ErrInvalidToolPath = errors.New("invalid tool path")
	ErrUnknownTool     = errors.New("unknown tool")
)
