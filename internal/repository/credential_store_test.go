package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xhs_feishu_ops_v1/internal/model"
)

func newTestStore(t *testing.T) CredentialStore {
	return NewFileCredentialStore(filepath.Join(t.TempDir(), "credential.json"))
}

func testCredential(refreshToken string) *model.Credential {
	now := time.Now().Truncate(time.Second)
	return model.NewCredential("access_"+refreshToken, refreshToken, 7200, 2592000, now)
}

func TestFileCredentialStore_LoadAbsent(t *testing.T) {
	store := newTestStore(t)

	cred, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, cred, "记录不存在时应返回 nil")
}

func TestFileCredentialStore_SaveLoadRoundtrip(t *testing.T) {
	store := newTestStore(t)
	cred := testCredential("rt_1")

	require.NoError(t, store.Save(cred))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, cred.AccessToken, loaded.AccessToken)
	assert.Equal(t, cred.RefreshToken, loaded.RefreshToken)
	assert.True(t, cred.ExpiresAt.Equal(loaded.ExpiresAt))
	assert.True(t, cred.RefreshExpiresAt.Equal(loaded.RefreshExpiresAt))
}

func TestFileCredentialStore_SaveReplacesWholeRecord(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(testCredential("rt_old")))
	require.NoError(t, store.Save(testCredential("rt_new")))

	loaded, err := store.Load()
	require.NoError(t, err)
	// 整条覆盖，旧记录不留任何字段
	assert.Equal(t, "rt_new", loaded.RefreshToken)
	assert.Equal(t, "access_rt_new", loaded.AccessToken)
}

func TestFileCredentialStore_CompareAndSwap(t *testing.T) {
	store := newTestStore(t)
	old := testCredential("rt_1")
	require.NoError(t, store.Save(old))

	// 基准一致，写入成功
	swapped, err := store.CompareAndSwap(old, testCredential("rt_2"))
	require.NoError(t, err)
	assert.True(t, swapped)

	// 基准已经变了 (还是 rt_1)，写入被拒
	swapped, err = store.CompareAndSwap(old, testCredential("rt_3"))
	require.NoError(t, err)
	assert.False(t, swapped, "基准不一致时 CAS 必须失败")

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "rt_2", loaded.RefreshToken, "落败的写入不应覆盖赢家")
}

func TestFileCredentialStore_Clear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(testCredential("rt_1")))

	require.NoError(t, store.Clear())

	cred, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, cred)

	// 重复 Clear 不报错
	require.NoError(t, store.Clear())
}

func TestFileCredentialStore_AtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credential.json")
	store := NewFileCredentialStore(path)

	require.NoError(t, store.Save(testCredential("rt_1")))

	// 临时文件写完即 rename，不应残留
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "临时文件不应残留")
}
