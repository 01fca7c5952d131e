/*
Command phasecurve fits asteroid phase curves and computes absolute
magnitudes.

Contents

	Program overview
	Command line usage
	Configuration
	File formats
	Method outline

Program overview

Input is a file of photometric observations, one or more per object.
Output is, for each object, the fitted absolute magnitude H and slope
parameters of one of three phase curve systems:

	H-G      Bowell et al. 1989, in full or simple form
	H-G12    Muinonen et al. 2010, one slope parameter
	H-G1-G2  Muinonen et al. 2010, two slope parameters

Geometry, that is heliocentric distance, observer distance, and phase
angle, is given in the input file or looked up from the JPL Horizons
service by object designation and observation time.  Horizons results are
kept in a local SQLite database so repeated runs do not query again.

Sample run:

	$ cat eros.txt
	433 11.21 .02 1.1362 .2154 41.74
	433 10.48 .02 1.1429 .1818 31.02
	...
	$ phasecurve fit eros.txt
	Desig.     Family    N      H    σH      G    σG     G2   σG2   RMS  Flags
	433        H-G      12 10.402 0.021  0.451 0.030    --    -- 0.024  ok

Objects are fitted concurrently.  Results are printed in input order.

Command line usage

	phasecurve fit [flags] [file|-]
	phasecurve absmag [flags] [file|-]

The file "-" or no file reads standard input.

Fit fits a phase curve to each object.  Absmag gives the absolute magnitude
of each observation under a phase curve with fixed slope parameters.

Flags:

	--config file       config file, default .phasecurve.toml
	-v, --verbose       log progress to stderr
	--format table|mpc  input format
	--output text|toml  output format
	--de file           JPL DE binary ephemeris, for Sun-observer distances
	--cache file        ephemeris cache database
	--obscodes file     MPC observatory code file
	--family f          hg, hg12, or hg1g2
	--simple            simple H-G basis functions
	--g0 g              starting slope parameter, fixed for absmag
	--sims n            Monte Carlo repetitions for uncertainties (fit)
	--repeatable        fixed Monte Carlo seed (fit)

Uncertainties are standard deviations over repetitions of the fit with
magnitudes perturbed by Gaussian noise of the stated magnitude errors.
Without magnitude errors, or with fewer than two repetitions, they are
zero.  Repetitions are randomly seeded unless --repeatable is given.

Result flags are "ok" for a converged fit with slope parameters inside
their ranges, "not converged", and "at edge" for a slope parameter at
the bound of its range.  A fit at the edge should not be trusted even if
it converged.

Configuration

Settings can be given in a TOML file, in environment variables, or on the
command line, which takes priority.  The file is .phasecurve.toml in the
current directory or the home directory, or the file named with --config.
Environment variable names are PHASECURVE_ followed by the key in upper
case with dots replaced by underscores, as in PHASECURVE_FIT_FAMILY.

	de_file = "/data/de440.bin"
	obscodes = "/data/obscodes.dat"

	[horizons]
	url = "https://ssd.jpl.nasa.gov/api/horizons.api"
	center = "500@399"
	timeout = "60s"

	[cache]
	path = "/data/ephem.db"     # empty to disable

	[input]
	format = "table"

	[output]
	format = "text"

	[fit]
	family = "hg"
	simple = false
	g0 = 0.15
	h_range = [4.69, 29.28]
	g_range = [-0.30, 0.91]
	simulations = 30
	repeatable = false

The cache and the observatory code file default to a phasecurve directory
in the user cache directory.  If the observatory code file cannot be
read, a fresh copy is downloaded from the Minor Planet Center.

File formats

The table format has one observation per line, with fields

	desig mag sigma r delta alpha [date]

separated by white space.  Mag is apparent magnitude, sigma its
uncertainty, r and delta heliocentric and observer distances in AU, alpha
the phase angle in degrees.  Sigma and alpha may be "-".  Date is a Julian
date or a UTC date as 2025-03-14 or 2025-03-14T06:30:00.  Text after # is
a comment.  Consecutive lines with the same designation are one object.
Within an object, sigma, alpha, and date are given on all lines or none.

Without alpha, phase angles are computed from r, delta, and the
Sun-observer distance at the date, or 1 AU if there is no date.

The MPC format is the 80 column observation format documented at
https://minorplanetcenter.net/iau/info/OpticalObs.html.  Observations
without a magnitude are ignored.  Geometry comes from Horizons.  Packed
designations are unpacked for the Horizons lookup.

Method outline

The fit minimizes the RMS difference between observed reduced magnitudes
and the phase curve, over H and the slope parameters, within their
ranges.  The minimizer is Nelder-Mead, restarted once from its result.
Reduced magnitude is apparent magnitude less 5 log10(r Δ).
*/
package main
