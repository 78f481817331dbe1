package common

import (
	"flag"

	"github.com/google/uuid"
)

var Version = "v0.1.0"
var SystemName = "LockBox Global"

var (
	Port          = flag.Int("port", 3000, "the listening port")
	PrintVersion  = flag.Bool("version", false, "print version and exit")
	PrintHelpFlag = flag.Bool("help", false, "print help and exit")
	LogDir        = flag.String("log-dir", "", "specify the log directory")
)

var (
	SQLitePath = "data/lockbox.db"
	UploadPath = "data/uploads"
)

// SessionSecret is regenerated on every start unless overridden, which
// invalidates existing cookie sessions across restarts.
var SessionSecret = uuid.New().String()

var (
	JWTSecret        = ""
	JWTRefreshSecret = ""
)

// Role constants
const (
	RoleGuestUser  = 0
	RoleCommonUser = 1
	RoleAdminUser  = 10
	RoleRootUser   = 100
)

// Status constants
const (
	UserStatusEnabled  = 1
	UserStatusDisabled = 2
)

var ItemsPerPage = 10
