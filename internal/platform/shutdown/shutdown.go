package shutdown

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SlpAus/urble-backend/pkg/lifecycle"
)

const (
	httpTimeout     = 15 * time.Second
	gracefulTimeout = 30 * time.Second
	forcefulTimeout = 1 * time.Second
)

// Coordinator 负责编排应用程序的优雅停机流程。
// 它接收外部创建的生命周期管理器，并使用它们来协调停机。
type Coordinator struct {
	GracefulManager *lifecycle.Manager
	ForcefulManager *lifecycle.Manager

	// finalizers 在所有后台服务退出后按注册顺序执行，例如关闭数据库连接
	finalizers []finalizer
}

type finalizer struct {
	name string
	fn   func() error
}

// NewCoordinator 创建一个新的停机协调器。
func NewCoordinator(gracefulMgr, forcefulMgr *lifecycle.Manager) *Coordinator {
	return &Coordinator{
		GracefulManager: gracefulMgr,
		ForcefulManager: forcefulMgr,
	}
}

// OnShutdown 注册一个在停机最后阶段执行的清理函数
func (c *Coordinator) OnShutdown(name string, fn func() error) {
	c.finalizers = append(c.finalizers, finalizer{name: name, fn: fn})
}

// ListenForSignalsAndShutdown 启动信号监听并阻塞，直到停机流程完成。
func (c *Coordinator) ListenForSignalsAndShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 阻塞直到接收到停机信号
	<-sigChan
	fmt.Println("\n收到关闭信号，开始优雅停机...")
	c.Shutdown(server)
}

// Shutdown 执行完整的停机流程：关闭HTTP服务器、两阶段停止后台服务、执行清理函数
func (c *Coordinator) Shutdown(server *http.Server) {
	// 关闭HTTP服务器，允许正在进行的请求完成
	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Gin服务器关闭错误: %v\n", err)
		} else {
			fmt.Println("Gin服务器已关闭。")
		}
	}

	// --- 阶段一: 优雅停机 ---
	fmt.Printf("第一阶段停机：等待最多 %v 以完成任务...\n", gracefulTimeout)
	c.GracefulManager.Shutdown()

	remainingServices := c.GracefulManager.WaitWithTimeout(gracefulTimeout)
	if len(remainingServices) == 0 {
		fmt.Println("所有服务已在第一阶段优雅关闭。")
	} else {
		// --- 阶段二: 强制停机 ---
		fmt.Printf("第一阶段超时，仍在运行: %v。发送第二停机信号 (最多等待 %v)...\n", remainingServices, forcefulTimeout)
		c.ForcefulManager.Shutdown()
		c.ForcefulManager.WaitWithTimeout(forcefulTimeout)
	}

	// --- 最终步骤 ---
	for _, f := range c.finalizers {
		if err := f.fn(); err != nil {
			fmt.Printf("停机清理 [%s] 失败: %v\n", f.name, err)
		} else {
			fmt.Printf("停机清理 [%s] 完成。\n", f.name)
		}
	}

	fmt.Println("优雅停机完成。")
}
