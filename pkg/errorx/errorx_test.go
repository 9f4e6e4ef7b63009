package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeDBError, "保存消息失败")

	assert.Equal(t, CodeDBError, GetCode(err))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetCodeFallback(t *testing.T) {
	// 非 CodeError 类型应回退为服务繁忙
	assert.Equal(t, CodeServerBusy, GetCode(errors.New("boom")))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	inner := New(CodeNotFound, "用户不存在")
	outer := fmt.Errorf("login: %w", inner)
	assert.Equal(t, CodeNotFound, GetCode(outer))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(CodeNotFound, "无此消息")))
	assert.True(t, IsNotFound(errors.New("record not found")))
	assert.False(t, IsNotFound(New(CodeConflict, "重复申请")))
	assert.False(t, IsNotFound(nil))
}
