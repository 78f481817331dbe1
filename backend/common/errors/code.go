package errors

// Generic error codes
const (
	ErrInternalServer = "ERR_INTERNAL_SERVER"
	ErrInvalidParam   = "ERR_INVALID_PARAM"
	ErrDependency     = "ERR_DEPENDENCY"
)

// Account error codes
const (
	ErrEmptyCredentials   = "ERR_EMPTY_CREDENTIALS"
	ErrInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrUserDisabled       = "ERR_USER_DISABLED"
	ErrUserNotFound       = "ERR_USER_NOT_FOUND"
	ErrUsernameTaken      = "ERR_USERNAME_TAKEN"
	ErrEmailTaken         = "ERR_EMAIL_TAKEN"
)

// Folder error codes
const (
	ErrFolderNameEmpty    = "ERR_FOLDER_NAME_EMPTY"
	ErrPasswordTooShort   = "ERR_PASSWORD_TOO_SHORT"
	ErrNoFiles            = "ERR_NO_FILES"
	ErrFolderNotFound     = "ERR_FOLDER_NOT_FOUND"
	ErrFolderAccessDenied = "ERR_FOLDER_ACCESS_DENIED"
	ErrWrongPassword      = "ERR_WRONG_PASSWORD"
	ErrFileNotFound       = "ERR_FILE_NOT_FOUND"
)

// Chat error codes
const (
	ErrEmptyMessage   = "ERR_EMPTY_MESSAGE"
	ErrNotFolderOwner = "ERR_NOT_FOLDER_OWNER"
	ErrNothingToShare = "ERR_NOTHING_TO_SHARE"
)
