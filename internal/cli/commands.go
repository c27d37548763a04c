package cli

// Every command package registers itself from init.
import (
	_ "github.com/keshon/lvc/internal/command/add"
	_ "github.com/keshon/lvc/internal/command/branch"
	_ "github.com/keshon/lvc/internal/command/checkout"
	_ "github.com/keshon/lvc/internal/command/commit"
	_ "github.com/keshon/lvc/internal/command/find"
	_ "github.com/keshon/lvc/internal/command/global-log"
	_ "github.com/keshon/lvc/internal/command/initialize"
	_ "github.com/keshon/lvc/internal/command/log"
	_ "github.com/keshon/lvc/internal/command/merge"
	_ "github.com/keshon/lvc/internal/command/reset"
	_ "github.com/keshon/lvc/internal/command/rm"
	_ "github.com/keshon/lvc/internal/command/rm-branch"
	_ "github.com/keshon/lvc/internal/command/status"
	_ "github.com/keshon/lvc/internal/command/verify"
)
