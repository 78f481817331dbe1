package service

import (
	"strings"

	apperrors "lockbox/backend/common/errors"
	"lockbox/backend/model"
)

// VerifyFolderCredentials compares a supplied (name, password) pair against a
// folder record. Names match case-insensitively on the lower-cased string;
// passwords match by exact, case-sensitive equality with no trimming. Pure;
// callers guarantee the folder exists.
func VerifyFolderCredentials(candidateName, candidatePassword string, f *model.Folder) bool {
	if strings.ToLower(candidateName) != strings.ToLower(f.Name) {
		return false
	}
	return candidatePassword == f.Password
}

// InitialUnlockState reports whether a viewer starts with the folder already
// unlocked. Only ownership bypasses the password: a Public folder is
// reachable by anyone but still locked for every non-owner.
func InitialUnlockState(f *model.Folder, requesterID int64) bool {
	return f.OwnerID == requesterID
}

// AccessSession tracks the lock state of one folder for one viewing context.
// It starts in the state InitialUnlockState decides, and Unlocked is terminal
// until the viewing context is torn down by the caller.
type AccessSession struct {
	folder   *model.Folder
	unlocked bool
}

func NewAccessSession(f *model.Folder, requesterID int64) *AccessSession {
	return &AccessSession{
		folder:   f,
		unlocked: InitialUnlockState(f, requesterID),
	}
}

func (s *AccessSession) FolderID() int64 {
	return s.folder.ID
}

func (s *AccessSession) Unlocked() bool {
	return s.unlocked
}

// Submit attempts the password. A wrong password is recoverable: the session
// stays locked and the viewer may retry without limit.
func (s *AccessSession) Submit(password string) error {
	if s.unlocked {
		return nil
	}
	if !VerifyFolderCredentials(s.folder.Name, password, s.folder) {
		return apperrors.New(apperrors.ErrWrongPassword, "incorrect password")
	}
	s.unlocked = true
	return nil
}

// AccessFolderByName is the credential-distribution entry point: whoever
// holds a folder's name and password gets in, visibility notwithstanding.
// Missing folder and wrong password are surfaced distinctly here because the
// submitter already holds (or claims to hold) the credential pair.
func AccessFolderByName(name, password string) (*model.Folder, error) {
	f, err := model.GetFolderByName(name)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDependency, "failed to look up folder")
	}
	if f == nil {
		return nil, apperrors.New(apperrors.ErrFolderNotFound, "folder not found")
	}
	if !VerifyFolderCredentials(name, password, f) {
		return nil, apperrors.New(apperrors.ErrWrongPassword, "incorrect password")
	}
	return f, nil
}
