/*
 * errors.go, part of goEspresso.
 *
 * Copyright 2023 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package qm

import "strings"

//Errors of the qm package. The first field is one of the Err* codes, so
//callers can act on the kind of failure without parsing the message.
type Error struct {
	message  string
	program  string
	filename string
	extra    string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	s := err.message + " in " + err.program + " run " + err.filename
	if err.extra != "" {
		s = s + ": " + err.extra
	}
	return s
}

//Decorate adds the caller dec to the error trace and returns the trace.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Trace returns the call trace accumulated by Decorate.
func (err Error) Trace() string {
	return strings.Join(err.deco, "/")
}

func (err Error) Critical() bool { return err.critical }

//The error codes.
const (
	ErrCantInput       = "Can't build input"
	ErrNotRunning      = "Program not running"
	ErrNoEnergy        = "No energy in output"
	ErrNoGeometry      = "No geometry in output"
	ErrNoCharges       = "Missing charge or multiplicity data"
	ErrProbableProblem = "Probable problem in calculation"
)

//The program this package drives.
const PW = "pw.x"
