package main

import (
	"minesweeper/ai"
	"minesweeper/session"
)

// networkOption は --weights の指定からヒント用の設定を作ります
// 空なら AI を使いません
func networkOption(path string) (session.Option, error) {
	if path == "" {
		return session.WithNetwork(nil), nil
	}
	net, err := ai.LoadNetwork(path)
	if err != nil {
		return nil, err
	}
	return session.WithNetwork(net), nil
}
