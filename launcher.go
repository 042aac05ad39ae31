package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

func main() {
	fmt.Println("Запуск Livestock Market...")

	clientName := "livestock"
	if runtime.GOOS == "windows" {
		clientName = "livestock.exe"
	}
	// сервер в фоне
	server := exec.Command("go", "run", "./cmd/server")
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr

	if err := server.Start(); err != nil {
		fmt.Printf("Ошибка запуска сервера: %v\n", err)
		return
	}

	time.Sleep(3 * time.Second)

	if err := buildClient(clientName, (*exec.Cmd).Run); err != nil {
		fmt.Printf("Ошибка сборки клиента: %v\n", err)
		_ = server.Process.Kill()
		os.Exit(1)
	}

	fmt.Println("Сервер запущен")
	// пишем как запускать агента
	if runtime.GOOS == "windows" {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: .\\livestock.exe")
	} else {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: ./livestock --help")
	}

	server.Wait()
}

// buildClient собирает клиента, если бинарника ещё нет.
// run запускает команду сборки (в тестах подменяется).
func buildClient(name string, run func(*exec.Cmd) error) error {
	if _, err := os.Stat(name); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", name, err)
	}

	fmt.Println("Сборка клиента...")
	build := exec.Command("go", "build", "-o", name, "./cmd/livestock")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := run(build); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	// если не винда даём права
	if runtime.GOOS != "windows" {
		if err := os.Chmod(name, 0o755); err != nil {
			return fmt.Errorf("chmod %s: %w", name, err)
		}
	}
	return nil
}
