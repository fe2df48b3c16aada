package filesystem

import (
	"os"
	"path/filepath"

	"kgeyst.com/nltagger/pkg/common"
)

// ConfigKeyTempDirectoryPath where intermediate files (for example, normalized images for llava.cpp) are stored
const ConfigKeyTempDirectoryPath = "tempDirectoryPath"

type TempFilePathProvider struct {
	tempDirectoryPath string
}

func NewTempFilePathProvider(config *common.Config) *TempFilePathProvider {
	return &TempFilePathProvider{
		tempDirectoryPath: config.GetStringOrDefault(ConfigKeyTempDirectoryPath, os.TempDir()),
	}
}

func (t *TempFilePathProvider) GetTempFilePath(fileName string) string {
	return filepath.Join(t.tempDirectoryPath, fileName)
}
