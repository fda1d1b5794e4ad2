// Package files discovers the workbooks a run will process.
//
// Discovery lists a single directory, without recursion, and keeps regular
// files (symlinks followed) whose extension is xlsx or xls in any case.
// Entries come back in directory listing order, which os.ReadDir sorts by
// name. Extracts written by earlier runs end in .csv and are never picked up.
//
// Example usage:
//
//	discovery := files.NewDiscovery("")
//	workbooks, err := discovery.FindWorkbooks("tmp-etl/sba")
package files
