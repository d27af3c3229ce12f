// Package textutil holds small string helpers shared by the CLI and report
// writers, chiefly turning session names into safe output file names.
package textutil
