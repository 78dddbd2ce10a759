package model

// Scope 论坛和聊天的作用域：全局或某个群组
// 零值即全局作用域
type Scope struct {
	groupUuid string
}

// GlobalScope 全局作用域，所有用户隐式为成员
func GlobalScope() Scope {
	return Scope{}
}

// GroupScope 指定群组的作用域
func GroupScope(groupUuid string) Scope {
	return Scope{groupUuid: groupUuid}
}

// ScopeOf 将请求中的群组 ID 转换为作用域，空串和 "global" 视为全局
func ScopeOf(groupUuid string) Scope {
	if groupUuid == "" || groupUuid == "global" {
		return GlobalScope()
	}
	return GroupScope(groupUuid)
}

// IsGlobal 是否为全局作用域
func (s Scope) IsGlobal() bool {
	return s.groupUuid == ""
}

// GroupUuid 返回群组 UUID，全局作用域时 ok 为 false
func (s Scope) GroupUuid() (string, bool) {
	return s.groupUuid, s.groupUuid != ""
}

func (s Scope) String() string {
	if s.IsGlobal() {
		return "global"
	}
	return "group:" + s.groupUuid
}
