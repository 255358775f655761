/* Copyright 2024 Comcast Cable Communications Management, LLC
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

// Package explore drives the semantics in package core.
//
// Reach searches the configurations of a single model.  Product
// searches the synchronous product of a model and a step-dependent
// property automaton, which observes each model step through "@"
// expressions.  Both stop at the first accepting state and return a
// Report with a counterexample.
//
// Visited states are kept in a storage.Storage: in memory by default
// or in a BoltDB bucket (see package storage/bolt) for large searches.
package explore
