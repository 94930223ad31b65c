// Package feed 维护客户端已渲染的博文列表。
// 列表变换是纯函数：输入列表不被修改，便于脱离网络时序单测。
package feed

import "github.com/d60-Lab/blog-api/internal/model"

// Event 列表变更事件
type Event interface{ isEvent() }

// Created 新建成功：插到最前（列表保持最新在前）
type Created struct{ Post model.PostView }

// Updated 更新成功：原位替换
type Updated struct{ Post model.PostView }

// Deleted 删除成功：按 ID 过滤
type Deleted struct{ ID string }

func (Created) isEvent() {}
func (Updated) isEvent() {}
func (Deleted) isEvent() {}

// Apply 对列表应用一个事件，返回新列表
func Apply(list []model.PostView, ev Event) []model.PostView {
	switch e := ev.(type) {
	case Created:
		out := make([]model.PostView, 0, len(list)+1)
		out = append(out, e.Post)
		return append(out, list...)
	case Updated:
		out := make([]model.PostView, len(list))
		copy(out, list)
		for i := range out {
			if out[i].ID == e.Post.ID {
				out[i] = e.Post
			}
		}
		return out
	case Deleted:
		out := make([]model.PostView, 0, len(list))
		for _, p := range list {
			if p.ID != e.ID {
				out = append(out, p)
			}
		}
		return out
	default:
		return list
	}
}
