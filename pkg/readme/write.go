package readme

import (
	"os"
	"path/filepath"

	"github.com/agentstation/readmegen/pkg/constants"
	"github.com/agentstation/readmegen/pkg/errors"
)

// WriteFile replaces path with data. The content is written to a temporary
// file in the same directory and renamed into place, so readers never see a
// half-written README and a failure leaves the previous file intact.
func WriteFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.WrapIO("write", tmpName, err)
	}
	if err = tmp.Chmod(constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
