package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"xhs_feishu_ops_v1/internal/model"
)

// ==================== 仓储接口 ====================

// CredentialStore 凭证存储接口
// 整条记录原子替换，不做部分字段合并
type CredentialStore interface {
	// Load 读取凭证，记录不存在时返回 (nil, nil)
	Load() (*model.Credential, error)

	// Save 整条覆盖写入
	Save(cred *model.Credential) error

	// CompareAndSwap 仅当当前记录仍等于 old 时写入 new
	// 用于封堵并发刷新互相覆盖的竞态，返回是否写入成功
	CompareAndSwap(old, new *model.Credential) (bool, error)

	// Clear 删除凭证 (登出)
	Clear() error
}

// ==================== 文件实现 ====================

// fileCredentialStore 单 JSON 文件实现
// 写入走临时文件 + rename，保证崩溃时文件不会只写一半
type fileCredentialStore struct {
	path string
	mu   sync.Mutex
}

// NewFileCredentialStore 创建文件凭证存储
func NewFileCredentialStore(path string) CredentialStore {
	return &fileCredentialStore{path: path}
}

func (s *fileCredentialStore) Load() (*model.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *fileCredentialStore) loadLocked() (*model.Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cred model.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

func (s *fileCredentialStore) Save(cred *model.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(cred)
}

func (s *fileCredentialStore) saveLocked(cred *model.Credential) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileCredentialStore) CompareAndSwap(old, new *model.Credential) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked()
	if err != nil {
		return false, err
	}

	// 比较基准: refresh_token + 过期时间
	// 两者任一变化说明已有并发写入，放弃本次写，调用方重读即可
	if !credentialEqual(current, old) {
		return false, nil
	}

	if err := s.saveLocked(new); err != nil {
		return false, err
	}
	return true, nil
}

func (s *fileCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func credentialEqual(a, b *model.Credential) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.RefreshToken == b.RefreshToken && a.ExpiresAt.Equal(b.ExpiresAt)
}
