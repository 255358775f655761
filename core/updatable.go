/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package core

import (
	"sync/atomic"
)

// Modeler enables other things to manifest themselves as Models.
//
// A Model is itself a Modeler.  An UpdatableModel is also a Modeler,
// but it's not itself a Model.
type Modeler interface {
	Model() *Model
}

// Model makes any Model a Modeler.
func (m *Model) Model() *Model {
	return m
}

// UpdatableModel is a Modeler with an underlying Model that can be
// changed at any time.
//
// A service can hand out an UpdatableModel and later swap in a new
// version of the source without disturbing callers that already hold
// the old Model.
type UpdatableModel struct {
	model atomic.Pointer[Model]
}

// NewUpdatableModel makes one with the given initial model, which can
// be changed later via SetModel.
func NewUpdatableModel(m *Model) *UpdatableModel {
	u := &UpdatableModel{}
	u.model.Store(m)
	return u
}

// SetModel atomically changes the underlying model, which must be
// compiled.
func (u *UpdatableModel) SetModel(m *Model) error {
	if !m.Compiled() {
		return &ModelNotCompiled{Model: m}
	}
	u.model.Store(m)
	return nil
}

// Model implements the Modeler interface.
func (u *UpdatableModel) Model() *Model {
	return u.model.Load()
}
