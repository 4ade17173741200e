package health

import (
	"fmt"
	"sync"
)

// State 定义了Redis缓存层的健康状态
type State int

const (
	StateHealthy State = iota
	StateDegraded
	StateRebuilding
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateRebuilding:
		return "rebuilding"
	case StateDisabled:
		return "disabled"
	}
	return "unknown"
}

// statusManager 负责线程安全地管理Redis的健康状态和最近一次看到的run_id。
type statusManager struct {
	mu             sync.RWMutex
	currentState   State
	lastKnownRunID string
}

func newStatusManager(initial State) *statusManager {
	return &statusManager{currentState: initial}
}

// State 返回当前状态
func (sm *statusManager) State() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// SetInitialRunID 记录启动时的Redis run_id
func (sm *statusManager) SetInitialRunID(runID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.lastKnownRunID = runID
}

// Assess 根据一次探测结果计算下一个状态，并返回是否需要重建缓存。
// run_id 为空表示无法识别重启，此时只根据连通性判断。
func (sm *statusManager) Assess(connected bool, runID string) (needsRebuild bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	restarted := runID != "" && sm.lastKnownRunID != "" && sm.lastKnownRunID != runID

	switch sm.currentState {
	case StateHealthy:
		if !connected {
			sm.currentState = StateDegraded
			fmt.Println("健康检查: Redis连接丢失，系统状态 -> [降级]")
		} else if restarted {
			sm.currentState = StateRebuilding
			needsRebuild = true
			fmt.Printf("健康检查: 检测到Redis重启 (run_id: %s -> %s)，系统状态 -> [重建中]\n", sm.lastKnownRunID, runID)
		}
	case StateDegraded:
		if connected {
			if restarted {
				sm.currentState = StateRebuilding
				needsRebuild = true
				fmt.Printf("健康检查: Redis已恢复但检测到重启 (run_id: %s -> %s)，系统状态 -> [重建中]\n", sm.lastKnownRunID, runID)
			} else {
				sm.currentState = StateHealthy
				fmt.Println("健康检查: Redis连接已恢复，系统状态 -> [健康]")
			}
		}
	case StateRebuilding:
		if !connected {
			sm.currentState = StateDegraded
			fmt.Println("健康检查: 在缓存重建期间Redis连接再次丢失，系统状态 -> [降级]")
		} else {
			// 上次重建失败，继续重试
			needsRebuild = true
		}
	case StateDisabled:
		return false
	}

	if connected && runID != "" {
		sm.lastKnownRunID = runID
	}
	return needsRebuild
}

// MarkRebuildComplete 在一次重建尝试之后调用
func (sm *statusManager) MarkRebuildComplete(success bool, runIDAfterRebuild string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.currentState != StateRebuilding {
		return
	}

	if success && runIDAfterRebuild != "" && sm.lastKnownRunID != runIDAfterRebuild {
		fmt.Printf("健康检查错误: 缓存重建期间检测到Redis再次重启 (run_id: %s -> %s)。重建无效，保持[重建中]状态。\n", sm.lastKnownRunID, runIDAfterRebuild)
		sm.lastKnownRunID = runIDAfterRebuild
		return
	}

	if success {
		sm.currentState = StateHealthy
		fmt.Println("健康检查: 缓存重建成功，系统状态 -> [健康]")
	} else {
		fmt.Println("健康检查错误: 缓存重建失败，系统状态保持 [重建中] 以待重试")
	}
}
