// Package plugins lists the built-in rewrite rules.
package plugins

import (
	"github.com/leapstack-labs/leapup/pkg/rewrite"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins/ioopen"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins/mock"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins/openmode"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins/oserror"
	"github.com/leapstack-labs/leapup/pkg/rewrite/plugins/pep585"
)

// All returns every built-in rule module.
func All() []rewrite.Module {
	return []rewrite.Module{
		ioopen.Module,
		mock.Module,
		openmode.Module,
		oserror.Module,
		pep585.Module,
	}
}
