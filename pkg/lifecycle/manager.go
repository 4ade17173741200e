package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Manager 负责向后台服务分发句柄(Handle)，并在停机时等待它们退出。
type Manager struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	services map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager 创建一个新的生命周期管理器。
func NewManager() *Manager {
	m := &Manager{
		services: make(map[string]bool),
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

// NewServiceHandle 为一个服务创建一个新的生命周期句柄(Handle)。
// 同名服务不能重复注册。
func (m *Manager) NewServiceHandle(name string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.services[name] {
		return nil, fmt.Errorf("生命周期管理器: 服务 '%s' 已被注册", name)
	}
	m.services[name] = true
	m.wg.Add(1)
	fmt.Printf("生命周期管理器: 服务 [%s] 已注册。\n", name)

	var once sync.Once
	return &Handle{
		name: name,
		ctx:  m.ctx,
		Close: func() {
			once.Do(func() {
				m.mu.Lock()
				defer m.mu.Unlock()
				delete(m.services, name)
				m.wg.Done()
			})
		},
	}, nil
}

// Go 注册一个服务并在新的Goroutine中运行它，fn返回时自动Close
func (m *Manager) Go(name string, fn func(h *Handle)) error {
	handle, err := m.NewServiceHandle(name)
	if err != nil {
		return err
	}
	go func() {
		defer handle.Close()
		fn(handle)
	}()
	return nil
}

// Shutdown 广播停机信号
func (m *Manager) Shutdown() {
	fmt.Println("生命周期管理器: 广播停机信号...")
	m.cancel()
}

// WaitWithTimeout 等待所有已注册的服务完成，超时后返回仍未退出的服务名。
func (m *Manager) WaitWithTimeout(timeout time.Duration) []string {
	doneChan := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(doneChan)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-doneChan:
		return nil
	case <-timer.C:
		m.mu.Lock()
		defer m.mu.Unlock()
		remaining := make([]string, 0, len(m.services))
		for name := range m.services {
			remaining = append(remaining, name)
		}
		sort.Strings(remaining)
		return remaining
	}
}
