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
 * goEspresso is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

package espresso

//CError (Concrete Error) is the concrete error type implementing the
//Error interface in this package.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

//Decorate adds the given string to the decoration slice, and returns the slice.
//If given an empty string, it just returns the current slice.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//errDecorate asserts that err implements Error, decorates it
//with the caller's name, and returns it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return CError{err.Error(), []string{caller}}
	}
	err2.Decorate(caller)
	return err2
}
