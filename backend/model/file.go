package model

import (
	"github.com/burugo/thing"
)

// FileRecord describes one stored file inside a folder. Records are created
// in a batch at folder creation and never mutated afterwards; they only go
// away when their folder is deleted.
type FileRecord struct {
	thing.BaseModel
	FolderID   int64  `db:"folder_id,index" json:"folder_id"`
	Name       string `db:"name" json:"name"`
	SizeBytes  int64  `db:"size_bytes" json:"size_bytes"`
	MimeType   string `db:"mime_type" json:"mime_type"`
	StorageKey string `db:"storage_key,index" json:"-"`
}

func (r *FileRecord) TableName() string {
	return "file_records"
}

var FileRecordDB *thing.Thing[*FileRecord]

func FileRecordInit() error {
	var err error
	FileRecordDB, err = thing.Use[*FileRecord]()
	return err
}

func GetFilesByFolder(folderID int64) ([]*FileRecord, error) {
	return FileRecordDB.
		Where("folder_id = ?", folderID).
		Order("id ASC").
		All()
}

func GetFileRecord(id int64) (*FileRecord, error) {
	return FileRecordDB.ByID(id)
}

// InsertFileRecords saves the batch one row at a time; per-record atomicity
// is all the persistence layer guarantees. On failure the already-inserted
// prefix stays behind and the caller is expected to clean up by folder id.
func InsertFileRecords(records []*FileRecord) error {
	for _, record := range records {
		if err := FileRecordDB.Save(record); err != nil {
			return err
		}
	}
	return nil
}

func DeleteFileRecordsByFolder(folderID int64) error {
	records, err := GetFilesByFolder(folderID)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := FileRecordDB.Delete(record); err != nil {
			return err
		}
	}
	return nil
}
