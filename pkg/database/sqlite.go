package database

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化本地 SQLite 数据库
// path: 数据库文件路径 (":memory:" 用于测试)
// models: 需要自动建表/迁移的结构体指针
//
// 本地表只做操作员工作清单的簿记，只读部署环境下允许初始化失败，
// 因此这里返回 error 而不是直接退出进程，由调用方降级处理。
func InitDB(path string, models ...interface{}) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// SQLite 单文件库，连接池收紧避免写锁竞争
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, err
		}
	}

	logrus.WithField("path", path).Info("本地数据库初始化完成")
	return db, nil
}
