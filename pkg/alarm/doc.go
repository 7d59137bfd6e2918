// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

// Package alarm drives the alarm trial flows: pick the templates, open one
// mail session, send every template in order and close the session again.
//
// The burst flow draws its templates at random with replacement from a list of
// candidates to simulate alarms arriving at the same time. The single flow
// sends one fixed template.
package alarm
