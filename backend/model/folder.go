package model

import (
	"strings"

	"github.com/burugo/thing"
)

type FolderVisibility string

const (
	FolderPublic  FolderVisibility = "public"
	FolderPrivate FolderVisibility = "private"
)

// Folder is a named, password-gated container of files. The password is
// stored and compared as a plain string by contract; see DESIGN.md before
// changing that.
//
// Folder names are not unique. Name-based lookup resolves ties with
// "most recently created wins".
type Folder struct {
	thing.BaseModel
	Name       string           `db:"name,index" json:"name"`
	Password   string           `db:"password" json:"-"`
	OwnerID    int64            `db:"owner_id,index" json:"owner_id"`
	Visibility FolderVisibility `db:"visibility" json:"visibility"`
}

func (f *Folder) TableName() string {
	return "folders"
}

func (f *Folder) IsPrivate() bool {
	return f.Visibility == FolderPrivate
}

var FolderDB *thing.Thing[*Folder]

func FolderInit() error {
	var err error
	FolderDB, err = thing.Use[*Folder]()
	return err
}

func GetFolderById(id int64) (*Folder, error) {
	return FolderDB.ByID(id)
}

// GetFolderByName looks a folder up by its normalized name. Duplicate names
// are allowed at creation time, so the newest match wins.
func GetFolderByName(name string) (*Folder, error) {
	folders, err := FolderDB.
		Where("LOWER(name) = ?", strings.ToLower(name)).
		Order("created_at DESC, id DESC").
		Fetch(0, 1)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, nil
	}
	return folders[0], nil
}

func GetFoldersByOwner(ownerID int64) ([]*Folder, error) {
	return FolderDB.
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		All()
}

// SearchFoldersByOwner filters one owner's folders by substring on the name.
// SQLite LIKE is case-insensitive for ASCII, which matches the contract.
func SearchFoldersByOwner(ownerID int64, keyword string) ([]*Folder, error) {
	return FolderDB.
		Where("owner_id = ? AND name LIKE ?", ownerID, "%"+keyword+"%").
		Order("created_at DESC, id DESC").
		All()
}
