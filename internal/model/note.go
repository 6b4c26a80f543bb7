package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ==================== 状态常量 ====================

const (
	// 笔记提取状态 (本地工作清单与多维表格状态列共用)
	NoteStatusPending    = "pending"
	NoteStatusExtracting = "extracting"
	NoteStatusDone       = "done"
	NoteStatusFailed     = "failed"
)

// ==================== 多维表格字段名 ====================

// 多维表格中被本应用读写的字段集合，其余字段原样透传
const (
	FieldTitle    = "标题"
	FieldContent  = "正文"
	FieldTags     = "标签"
	FieldNoteURL  = "笔记链接"
	FieldStatus   = "提取状态"
	FieldCover    = "封面"
	FieldImages   = "图片"
	FieldDeeplink = "改写链接"
	FieldError    = "失败原因"
)

// ==================== JSON 类型 ====================

// StringSlice 字符串切片（JSON 文本存储）
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// ==================== 本地工作清单 ====================

// Note 操作员工作清单中的一条笔记
// 只做簿记用途，允许在只读部署环境下整表不可写
type Note struct {
	ID        int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string      `gorm:"size:255" json:"title"`
	Content   string      `gorm:"type:text" json:"content"`
	SourceURL string      `gorm:"size:512" json:"source_url"`
	Tags      StringSlice `gorm:"type:text" json:"tags"`
	Images    StringSlice `gorm:"type:text" json:"images"`
	Status    string      `gorm:"size:32;default:pending;index" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (Note) TableName() string { return "notes" }

// ==================== 请求级草稿 ====================

// NoteDraft 改写/发布流程中的临时笔记草稿 (不落库，仅在请求间传递)
type NoteDraft struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
	Images  []string `json:"images,omitempty"`
}
