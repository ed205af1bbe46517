package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid        = errors.New("参数错误")
	ErrFollowersInvalid    = errors.New("作者粉丝数必须为正数")
	ErrNegativeCounter     = errors.New("互动计数不能为负数")
	ErrSnapshotOutOfOrder  = errors.New("快照时间戳乱序")
	ErrPostNotFound        = errors.New("帖子未在追踪中")
	ErrPostAlreadyTracked  = errors.New("帖子已在追踪中")
	ErrAlertNotFound       = errors.New("告警不存在")
	ErrAlertResolved       = errors.New("告警已处结")
	ErrOutcomeLabelInvalid = errors.New("回复结果标签无效")
	ErrRevivalTypeInvalid  = errors.New("复活动作类型无效")
	UnauthorizedError      = errors.New("权限不足")
	UnExpectedError        = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrFollowersInvalid:    BadRequest,
	ErrNegativeCounter:     BadRequest,
	ErrSnapshotOutOfOrder:  BadRequest,
	ErrPostNotFound:        NotFound,
	ErrPostAlreadyTracked:  BadRequest,
	ErrAlertNotFound:       NotFound,
	ErrAlertResolved:       BadRequest,
	ErrOutcomeLabelInvalid: BadRequest,
	ErrRevivalTypeInvalid:  BadRequest,
	UnauthorizedError:      Unauthorized,
	UnExpectedError:        InternalServerError,
}
