package ingredient

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/RW04/recipe-service/internal/pkg/common"

	"go.uber.org/zap"
)

//go:embed data/ingredients_table.csv
var defaultCatalogCSV []byte

// Catalog 食材參考資料表：正規化名稱 -> 分類
// 啟動時載入一次，之後唯讀；沒有任何變更操作，
// 未來的「學習」新食材必須走明確的准入 API，不允許靜默寫入
type Catalog struct {
	entries map[string]Category
}

// LoadCatalog 載入食材資料表；path 為空時使用內嵌的預設資料表
func LoadCatalog(path string) (*Catalog, error) {
	var r io.Reader
	if path == "" {
		r = bytes.NewReader(defaultCatalogCSV)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog file: %w", err)
		}
		defer f.Close()
		r = f
	}

	catalog, err := loadCatalogFrom(r)
	if err != nil {
		return nil, err
	}

	common.LogInfo("食材資料表已載入",
		zap.Int("條目數", catalog.Len()),
	)
	return catalog, nil
}

func loadCatalogFrom(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	entries := make(map[string]Category, len(records))
	for i, record := range records {
		// 跳過表頭
		if i == 0 {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("catalog row %d: expected 2 columns, got %d", i+1, len(record))
		}

		name := Normalize(record[0])
		if name == "" {
			continue
		}

		category, ok := ParseCategory(record[1])
		if !ok {
			return nil, fmt.Errorf("catalog row %d: unknown category %q", i+1, record[1])
		}

		entries[name] = category
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog has no usable entries")
	}

	return &Catalog{entries: entries}, nil
}

// Lookup 查詢正規化名稱的分類
func (c *Catalog) Lookup(name string) (Category, bool) {
	category, ok := c.entries[name]
	return category, ok
}

// Contains 回報名稱是否存在於資料表
func (c *Catalog) Contains(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Len 資料表條目數
func (c *Catalog) Len() int {
	return len(c.entries)
}
