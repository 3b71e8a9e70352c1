package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突错误
// 各方言的错误信息:
// - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// - PostgreSQL 23505: duplicate key value violates unique constraint
// - SQLite: UNIQUE constraint failed: books.title
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	// 开启TranslateError后GORM统一转换为ErrDuplicatedKey
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// likeEscape LIKE转义字符
// 不使用反斜杠:MySQL与PostgreSQL对字符串字面量中反斜杠的处理不一致
const likeEscape = "!"

var likeReplacer = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike 转义LIKE通配符,用户输入按字面量匹配
func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// containsPattern 子串匹配模式:%keyword%
func containsPattern(s string) string {
	return "%" + escapeLike(strings.ToLower(s)) + "%"
}
