package service

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/danielkrainas/sbi/pkg/util/log"
)

type Component interface {
	ComponentName() string
	Run(ctx ComponentRunContext) error
}

func ComponentField(c Component) zap.Field {
	return zap.String("component", c.ComponentName())
}

func runComponent(ctx ComponentRunContext, c Component) {
	log.Info("component started", ComponentField(c))
	defer func() {
		defer ctx.Done()
		log.Info("component stopped", ComponentField(c))
		if pobj := recover(); pobj != nil {
			log.Error("component failure", ComponentField(c), zap.Any("reason", pobj))
		}
	}()

	if err := c.Run(ctx); err != nil {
		log.Error("component error", ComponentField(c), zap.Error(err))
	}
}

type ComponentRunContext struct {
	QuitCh chan struct{}
	wg     *sync.WaitGroup
}

func (ctx ComponentRunContext) Done() {
	ctx.wg.Done()
}

type ComponentManager struct {
	contexts    map[Component]*ComponentRunContext
	activeFlag  int32
	wg          *sync.WaitGroup
	contextLock sync.Mutex
}

func NewComponentManager() *ComponentManager {
	cm := &ComponentManager{
		contexts:   make(map[Component]*ComponentRunContext),
		activeFlag: 0,
		wg:         &sync.WaitGroup{},
	}

	return cm
}

func (cm *ComponentManager) Active() bool {
	return atomic.LoadInt32(&cm.activeFlag) != 0
}

// Components returns the names of the components registered with the manager.
func (cm *ComponentManager) Components() []string {
	cm.contextLock.Lock()
	defer cm.contextLock.Unlock()
	names := make([]string, 0, len(cm.contexts))
	for c := range cm.contexts {
		names = append(names, c.ComponentName())
	}

	sort.Strings(names)
	return names
}

func (cm *ComponentManager) MustUse(c Component) {
	if cm.Active() {
		panic(errors.New("cannot modify running component manager"))
	}

	cm.contexts[c] = nil
}

func (cm *ComponentManager) Run() error {
	if cm.Active() {
		return errors.New("component manager already running")
	}

	defer atomic.StoreInt32(&cm.activeFlag, 0)
	defer log.Info("component manager stopped")
	wg := &sync.WaitGroup{}
	func() {
		cm.contextLock.Lock()
		defer cm.contextLock.Unlock()
		atomic.StoreInt32(&cm.activeFlag, 1)
		cm.wg = wg
		wg.Add(len(cm.contexts))
		for c := range cm.contexts {
			ctx := &ComponentRunContext{
				QuitCh: make(chan struct{}),
				wg:     wg,
			}

			cm.contexts[c] = ctx
			go runComponent(*ctx, c)
		}
	}()

	log.Info("component manager started", zap.Strings("components", cm.Components()))
	wg.Wait()
	return nil
}

// Shutdown signals every running component and waits for them to stop.
// It is safe to call more than once.
func (cm *ComponentManager) Shutdown() {
	if !cm.Active() {
		return
	}

	cm.contextLock.Lock()
	for c, ctx := range cm.contexts {
		if ctx != nil {
			close(ctx.QuitCh)
			cm.contexts[c] = nil
		}
	}

	wg := cm.wg
	cm.contextLock.Unlock()
	wg.Wait()
}

type RunTasker interface {
	RunTask() error
}

type TaskComponent struct {
	name     string
	taskName string
	LogLevel zapcore.Level
	Interval time.Duration
	Warmup   time.Duration
	Tasker   RunTasker
}

var _ Component = (*TaskComponent)(nil)

func NewTaskComponent(name string, interval time.Duration, logLevel zapcore.Level, tasker RunTasker) *TaskComponent {
	return &TaskComponent{
		name:     "task_" + name,
		taskName: name,
		Interval: interval,
		Warmup:   5 * time.Second,
		Tasker:   tasker,
		LogLevel: logLevel,
	}
}

func (tc *TaskComponent) ComponentName() string {
	return tc.name
}

func (tc *TaskComponent) Run(ctx ComponentRunContext) error {
	select {
	case <-ctx.QuitCh:
		return nil
	case <-time.After(tc.Warmup):
	}

	timer := time.NewTicker(tc.Interval)
	defer timer.Stop()
	for {
		log.At(tc.LogLevel, "task execute", zap.String("task", tc.taskName))
		if err := tc.Tasker.RunTask(); err != nil {
			log.Error("task fail", zap.String("task", tc.taskName), zap.Error(err))
		} else {
			log.At(tc.LogLevel, "task success", zap.String("task", tc.taskName))
		}

		select {
		case <-ctx.QuitCh:
			return nil
		case <-timer.C:
		}
	}
}

// StopHookComponent idles until shutdown and then runs its hooks in order.
type StopHookComponent struct {
	Name  string
	Hooks []func()
}

var _ Component = (*StopHookComponent)(nil)

func (hc *StopHookComponent) ComponentName() string {
	return "hooks_" + hc.Name
}

func (hc *StopHookComponent) Run(ctx ComponentRunContext) error {
	<-ctx.QuitCh
	for _, hook := range hc.Hooks {
		hook()
	}

	return nil
}
