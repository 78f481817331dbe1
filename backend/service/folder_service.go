package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	"lockbox/backend/common"
	apperrors "lockbox/backend/common/errors"
	"lockbox/backend/model"
)

// folderMissingMsg is shared by not-found and access-denied so a private
// folder is indistinguishable from a nonexistent one.
const folderMissingMsg = "folder not found"

const minFolderPasswordLength = 6

// FileUpload is one incoming file for folder creation.
type FileUpload struct {
	Name     string
	Size     int64
	MimeType string
	Reader   io.Reader
}

// CreateFolder validates the input, persists the folder, stores every blob
// and batch-inserts the file records. The folder row plus its records form
// one logical commit: if the batch fails midway, the folder and whatever was
// written are rolled back by explicit cleanup (the persistence layer only
// guarantees per-record atomicity).
func CreateFolder(ownerID int64, name, password string, visibility model.FolderVisibility, files []FileUpload) (*model.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.New(apperrors.ErrFolderNameEmpty, "folder name must not be empty")
	}
	if len(password) < minFolderPasswordLength {
		return nil, apperrors.New(apperrors.ErrPasswordTooShort,
			fmt.Sprintf("password must be at least %d characters", minFolderPasswordLength))
	}
	if len(files) == 0 {
		return nil, apperrors.New(apperrors.ErrNoFiles, "folder must contain at least one file")
	}
	if visibility != model.FolderPrivate {
		visibility = model.FolderPublic
	}

	folder := &model.Folder{
		Name:       name,
		Password:   password,
		OwnerID:    ownerID,
		Visibility: visibility,
	}
	if err := model.FolderDB.Save(folder); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDependency, "failed to save folder")
	}

	now := time.Now()
	records := make([]*model.FileRecord, 0, len(files))
	for i, upload := range files {
		// one tick per file keeps keys unique within a batch
		key := StorageKey(ownerID, folder.ID, now.Add(time.Duration(i)*time.Millisecond), upload.Name)
		if err := Blobs.Put(key, upload.Reader); err != nil {
			rollbackFolder(folder, records)
			return nil, apperrors.Wrap(err, apperrors.ErrDependency, "failed to store file "+upload.Name)
		}
		records = append(records, &model.FileRecord{
			FolderID:   folder.ID,
			Name:       upload.Name,
			SizeBytes:  upload.Size,
			MimeType:   upload.MimeType,
			StorageKey: key,
		})
	}

	if err := model.InsertFileRecords(records); err != nil {
		rollbackFolder(folder, records)
		return nil, apperrors.Wrap(err, apperrors.ErrDependency, "failed to save file records")
	}

	common.SysLog(fmt.Sprintf("folder %d (%s) created by user %d with %d files", folder.ID, folder.Name, ownerID, len(records)))
	return folder, nil
}

// rollbackFolder undoes a partially created folder: blobs, any inserted
// records, then the folder row. Errors here are logged and otherwise
// swallowed since the original failure is what the caller gets.
func rollbackFolder(folder *model.Folder, records []*model.FileRecord) {
	for _, record := range records {
		if err := Blobs.Delete(record.StorageKey); err != nil {
			common.SysError(fmt.Sprintf("cleanup: failed to delete blob %s: %s", record.StorageKey, err.Error()))
		}
	}
	if err := model.DeleteFileRecordsByFolder(folder.ID); err != nil {
		common.SysError(fmt.Sprintf("cleanup: failed to delete file records of folder %d: %s", folder.ID, err.Error()))
	}
	if err := model.FolderDB.Delete(folder); err != nil {
		common.SysError(fmt.Sprintf("cleanup: failed to delete folder %d: %s", folder.ID, err.Error()))
	}
}

// GetFolder fetches a folder and its file records on behalf of a requester.
// A Private folder requested by a non-owner fails before any password logic,
// with the same message a missing folder produces.
func GetFolder(folderID, requesterID int64) (*model.Folder, []*model.FileRecord, error) {
	folder, err := model.GetFolderById(folderID)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrFolderNotFound, folderMissingMsg)
	}
	if folder.IsPrivate() && folder.OwnerID != requesterID {
		return nil, nil, apperrors.New(apperrors.ErrFolderAccessDenied, folderMissingMsg)
	}
	files, err := model.GetFilesByFolder(folder.ID)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrDependency, "failed to load folder files")
	}
	return folder, files, nil
}

// ListFolders returns the owner's folders, newest first. Snapshot semantics:
// the slice is complete at call time, there is no live subscription.
func ListFolders(ownerID int64) ([]*model.Folder, error) {
	folders, err := model.GetFoldersByOwner(ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDependency, "failed to list folders")
	}
	return folders, nil
}

// SearchFolders filters the owner's folders by case-insensitive substring on
// the name.
func SearchFolders(ownerID int64, query string) ([]*model.Folder, error) {
	folders, err := model.SearchFoldersByOwner(ownerID, strings.TrimSpace(query))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDependency, "failed to search folders")
	}
	return folders, nil
}

// DeleteFolder removes a folder with its file records and blobs. Owner only;
// non-owners get the not-found message regardless of visibility.
func DeleteFolder(folderID, requesterID int64) error {
	folder, err := model.GetFolderById(folderID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrFolderNotFound, folderMissingMsg)
	}
	if folder.OwnerID != requesterID {
		return apperrors.New(apperrors.ErrFolderAccessDenied, folderMissingMsg)
	}
	records, err := model.GetFilesByFolder(folder.ID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrDependency, "failed to load folder files")
	}
	for _, record := range records {
		if err := Blobs.Delete(record.StorageKey); err != nil {
			common.SysError(fmt.Sprintf("failed to delete blob %s: %s", record.StorageKey, err.Error()))
		}
	}
	if err := model.DeleteFileRecordsByFolder(folder.ID); err != nil {
		return apperrors.Wrap(err, apperrors.ErrDependency, "failed to delete file records")
	}
	if err := model.FolderDB.Delete(folder); err != nil {
		return apperrors.Wrap(err, apperrors.ErrDependency, "failed to delete folder")
	}
	return nil
}

// FormatFolderDetails builds the clipboard/export string for out-of-band
// credential sharing.
func FormatFolderDetails(f *model.Folder) string {
	return fmt.Sprintf("Folder: %s\nPassword: %s\n\nAccess this folder on LockBox Global!", f.Name, f.Password)
}
