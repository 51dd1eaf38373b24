//go:build ignore

// Локальный запуск: сервер в фоне на memory-хранилище и сборка authctl.
//
//	go run launcher.go
package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

func main() {
	fmt.Println("Запуск auth-service...")

	clientName := "authctl"
	if runtime.GOOS == "windows" {
		clientName = "authctl.exe"
	}

	server := exec.Command("go", "run", "./cmd/server")
	server.Env = append(os.Environ(), "DB_DRIVER=memory")
	if os.Getenv("JWT_SIGNING_KEY") == "" {
		server.Env = append(server.Env, "JWT_SIGNING_KEY=local-dev-signing-key-change-me-0123456789")
	}
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr

	if err := server.Start(); err != nil {
		fmt.Printf("Ошибка запуска сервера: %v\n", err)
		return
	}

	time.Sleep(3 * time.Second)

	if _, err := os.Stat(clientName); os.IsNotExist(err) {
		fmt.Println("Сборка клиента...")
		build := exec.Command("go", "build", "-o", clientName, "./cmd/authctl")
		build.Stdout = os.Stdout
		build.Stderr = os.Stderr
		if err := build.Run(); err != nil {
			fmt.Printf("Ошибка сборки клиента: %v\n", err)
		}
	}

	fmt.Println("Сервер запущен")
	if runtime.GOOS == "windows" {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: .\\authctl.exe")
	} else {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: ./authctl")
	}

	_ = server.Wait()
}
