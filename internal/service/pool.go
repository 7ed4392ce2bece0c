package service

import (
	"context"
	"sync"
)

// runPool 用最多 workers 个协程处理 n 个任务，fn 按下标写结果，调用方得到的顺序与输入一致。
// ctx 取消后尚未开始的任务仍会交给 fn，由 fn 自己根据 ctx 决定如何失败。
func runPool(ctx context.Context, workers, n int, fn func(ctx context.Context, i int)) {
	if n == 0 {
		return
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	// 单协程时直接顺序执行
	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(ctx, i)
		}
		return
	}

	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(ctx, i)
			}
		}()
	}
	wg.Wait()
}
