/*
 * conversion.go, part of goEspresso.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package espresso

//This provides useful conversion factors and other constants.
//pw.x speaks Ry and bohr, so most of these move quantities in and
//out of those units.

//Conversions
const (
	Deg2Rad = 0.0174533
	Rad2Deg = 1 / 0.0174533
	H2Kcal  = 627.509 //Hartree 2 Kcal/mol
	Kcal2H  = 1 / 627.509
	Ry2H    = 0.5 //A Rydberg is half a Hartree
	H2Ry    = 2.0
	Ry2Kcal = 313.7545 //Rydberg 2 Kcal/mol
	Kcal2Ry = 1 / 313.7545
	Ry2eV   = 13.605693
	EV2Ry   = 1 / 13.605693
	A2Bohr  = 1.889725989
	Bohr2A  = 1 / 1.889725989
	KJ2Kcal = 1 / 4.184
	Kcal2KJ = 4.184
)
