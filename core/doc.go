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

// Package core provides the operational semantics of Soup
// specifications.
//
// A Soup declares variables and a collection of pieces.  Each piece
// is a guard and an effect.  A configuration (an Environment) binds
// every variable to a Value.  The pieces whose guards hold in a
// configuration are its enabled actions, and firing one runs its
// effect.  SoupSemantics packages that as a Relation with Initial,
// Actions, and Execute.
//
// Execute comes in two flavors.  The plain relation runs an effect
// on the configuration it is given and returns that same
// configuration.  The relation returned by Pure() copies the
// configuration first, which is what any search that branches needs.
//
// A second Soup can observe the steps of a first one.  Such a
// property automaton has its own variables, and its expressions reach
// into the observed step with "@e".  Inside "@", "x'" is x in the
// step's target, "p:name" tests which piece fired, and "deadlock"
// means a stutter that loops on its source.  StepDependentSemantics
// is the relation of a property automaton.
//
// Property front ends that only need a yes/no answer about one step
// can use EvaluateAtom, or compile an AtomSource with one of the
// registered Interpreters.
//
// Evaluation is synchronous and does no I/O.  Errors abort the
// evaluation in progress and are returned to the caller.
package core
