package model

import (
	"encoding/gob"
	"io"
	"os"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
)

// SaveModel はモデルをファイルに保存する
//
// 使用例:
//
//	fitted, _ := d.Model()
//	err := model.SaveModel(fitted, "fare.gob")
func SaveModel(model interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return woeerrors.Wrapf(err, "failed to create %s", filename)
	}

	if err := SaveModelToWriter(model, file); err != nil {
		_ = file.Close()
		return err
	}
	return woeerrors.Wrap(file.Close(), "failed to close model file")
}

// LoadModel はファイルからモデルを読み込む。modelはポインタであること
func LoadModel(model interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return woeerrors.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()

	return LoadModelFromReader(model, file)
}

// SaveModelToWriter はモデルをio.Writerにgob形式で書き出す
func SaveModelToWriter(model interface{}, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(model); err != nil {
		return woeerrors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader はio.Readerからgob形式のモデルを読み込む
func LoadModelFromReader(model interface{}, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(model); err != nil {
		return woeerrors.Wrap(err, "failed to decode model")
	}
	return nil
}
