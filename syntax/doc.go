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

// Package syntax defines the abstract syntax of Soup specifications.
//
// A Soup is a list of variable declarations followed by a list of
// pieces.  A piece is a guard (an Expression) and an effect (a
// Statement).  A piece can have a name, which property automata can
// refer to with the "p:name" notation.
//
// Expressions and Statements are closed sum types.  Every node type
// in this package implements exactly one of those interfaces (or
// neither, in the case of declarations), and the evaluators in
// package core switch over the complete set of node types.
//
// Nodes are immutable after construction.  Name resolution does not
// modify the tree; see package link.  Literal and Skip nodes are
// plain values, so they have no identity.  Other nodes are pointers,
// and their identity is what the linker and Positions use as keys.
package syntax
