package config

import (
	"sort"

	"github.com/spf13/pflag"
)

// BindFlags registers the rewrite options on fs. Only flags the user sets
// override lower-precedence sources in Load.
func BindFlags(fs *pflag.FlagSet) {
	names := make([]string, 0, len(VersionFlags))
	for name := range VersionFlags {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := VersionFlags[names[i]], VersionFlags[names[j]]
		return !a.AtLeast(b.Major, b.Minor)
	})
	for _, name := range names {
		fs.Bool(name, false, "rewrite for Python "+VersionFlags[name].String()+" and newer")
	}

	fs.String("min-version", DefaultMinVersion, "minimum Python version to target (e.g. 3.9)")
	fs.Bool("keep-percent-format", false, "do not rewrite percent-format strings")
	fs.Bool("keep-mock", false, "do not rewrite mock imports to unittest.mock")
	fs.Bool("keep-runtime-typing", false, "do not rewrite typing names used at runtime")
	fs.StringSlice("enable", nil, "run only these plugins (comma separated)")
	fs.StringSlice("disable", nil, "run every plugin except these (comma separated)")
	fs.String("rules-dir", DefaultRulesDir, "directory of Starlark rule files")
	fs.StringSlice("exclude", nil, "glob patterns of paths to skip")
	fs.IntP("jobs", "j", DefaultJobs, "number of files to process concurrently")
	fs.Bool("cache", false, "skip files that were clean on a previous run")
	fs.String("cache-path", DefaultCachePath, "location of the cache database")
	fs.Bool("exit-zero-even-if-changed", false, "exit 0 when files were rewritten")
}
