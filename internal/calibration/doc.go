// Package calibration turns the numeric tokens of each line into a two-digit
// calibration value and folds those values into a total.
//
// A line's value is first*10 + last, where first and last are the tokens with
// the smallest and largest start offset. A line with one token uses it twice.
// Lines that are exactly empty are skipped; any other line without a token is
// an error.
package calibration
