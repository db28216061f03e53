package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nPaBwaYT/crypta"
)

/*
Шифрование файла DES в режиме CBC
go run ./cmd/crypta -e -a=des -m=cbc input.txt output.enc

Дешифрование файла DES
go run ./cmd/crypta -d -a=des -m=cbc -k=<hex> output.enc restored.txt

Шифрование DEAL-256 с параллельной обработкой
go run ./cmd/crypta -e -a=deal256 -m=ctr -parallel input.txt output.enc

Шифрование с указанием ключа и IV
go run ./cmd/crypta -e -a=des -k="0123456789ABCDEF" -iv="FEDCBA9876543210" input.txt output.enc

Поддержка алгоритмов: DES, DEAL-128, DEAL-192, DEAL-256
Режимы шифрования: ECB, CBC, PCBC, CFB, OFB, CTR, RANDOM_DELTA
Режимы набивки: Zeros, PKCS7, ANSI X.923, ISO 10126
Параллельная обработка: ECB, CTR, RANDOM_DELTA
*/

func main() {
	// Определяем флаги
	encryptFlag := flag.Bool("e", false, "Режим шифрования")
	decryptFlag := flag.Bool("d", false, "Режим дешифрования")
	algorithmFlag := flag.String("a", "des", "Алгоритм шифрования: des, deal128, deal192, deal256")
	modeFlag := flag.String("m", "cbc", "Режим шифрования: ecb, cbc, pcbc, cfb, ofb, ctr, random")
	paddingFlag := flag.String("p", "pkcs7", "Режим набивки: zeros, pkcs7, ansi, iso")
	parallelFlag := flag.Bool("parallel", false, "Использовать параллельную обработку (ECB/CTR/RANDOM_DELTA)")
	keyFlag := flag.String("k", "", "Ключ шифрования в hex (если не указан, будет сгенерирован)")
	ivFlag := flag.String("iv", "", "Вектор инициализации в hex (если не указан, будет сгенерирован)")

	flag.Parse()

	// Проверяем аргументы
	if (*encryptFlag && *decryptFlag) || (!*encryptFlag && !*decryptFlag) {
		fmt.Println("Использование:")
		fmt.Println("  Шифрование: go run ./cmd/crypta -e -a=des -m=cbc input.txt output.enc")
		fmt.Println("  Дешифрование: go run ./cmd/crypta -d -a=des -m=cbc -k=<hex> input.enc output.txt")
		fmt.Println("\nФлаги:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) != 2 {
		fmt.Println("Ошибка: необходимо указать входной и выходной файлы")
		os.Exit(1)
	}

	inputFile := args[0]
	outputFile := args[1]

	// Проверяем существование входного файла
	if _, err := os.Stat(inputFile); os.IsNotExist(err) {
		log.Fatalf("Ошибка: входной файл '%s' не существует", inputFile)
	}

	// Выбираем алгоритм
	cipher, keyLength, blockSize, err := createCipher(*algorithmFlag)
	if err != nil {
		log.Fatalf("Ошибка создания шифра: %v", err)
	}

	// Генерируем или парсим ключ
	key, err := getOrGenerateKey(*keyFlag, keyLength)
	if err != nil {
		log.Fatalf("Ошибка работы с ключом: %v", err)
	}

	// Преобразуем режимы
	cipherMode, err := parseCipherMode(*modeFlag)
	if err != nil {
		log.Fatalf("Ошибка режима шифрования: %v", err)
	}
	paddingMode, err := parsePaddingMode(*paddingFlag)
	if err != nil {
		log.Fatalf("Ошибка режима набивки: %v", err)
	}

	// Генерируем или парсим IV (для ECB не нужен)
	var iv []byte
	if cipherMode != crypta.CipherModeECB {
		iv, err = getOrGenerateIV(*ivFlag, blockSize)
		if err != nil {
			log.Fatalf("Ошибка работы с IV: %v", err)
		}
	}

	// Создаем контекст шифрования
	cc, err := crypta.NewCipherContext(cipher, key, cipherMode, paddingMode, iv, *parallelFlag)
	if err != nil {
		log.Fatalf("Ошибка создания контекста шифрования: %v", err)
	}

	// Выполняем операцию
	startTime := time.Now()

	if *encryptFlag {
		if err := cc.EncryptFile(context.Background(), inputFile, outputFile); err != nil {
			log.Fatalf("Ошибка шифрования: %v", err)
		}
		fmt.Printf("Файл успешно зашифрован: %s -> %s\n", inputFile, outputFile)
	} else {
		if err := cc.DecryptFile(context.Background(), inputFile, outputFile); err != nil {
			log.Fatalf("Ошибка дешифрования: %v", err)
		}
		fmt.Printf("Файл успешно дешифрован: %s -> %s\n", inputFile, outputFile)
	}

	// Выводим информацию
	duration := time.Since(startTime)
	fileInfo, _ := os.Stat(inputFile)
	fileSize := fileInfo.Size()

	fmt.Printf("\nИнформация:\n")
	fmt.Printf("  Алгоритм: %s\n", *algorithmFlag)
	fmt.Printf("  Режим: %s\n", cipherMode)
	fmt.Printf("  Набивка: %s\n", paddingMode)
	fmt.Printf("  Параллельная обработка: %v\n", *parallelFlag)
	fmt.Printf("  Размер файла: %d байт\n", fileSize)
	fmt.Printf("  Время выполнения: %v\n", duration)
	if fileSize > 0 && duration > 0 {
		fmt.Printf("  Скорость: %.1f KB/s\n", float64(fileSize)/1024/duration.Seconds())
	}
	fmt.Printf("  Ключ: %x\n", key)
	if cipherMode != crypta.CipherModeECB {
		fmt.Printf("  IV: %x\n", iv)
	}
}

// createCipher создает экземпляр шифра в зависимости от алгоритма
func createCipher(algorithm string) (crypta.ISymmetricCipher, int, int, error) {
	switch algorithm {
	case "des":
		cipher, err := crypta.NewDESCipher()
		return cipher, 8, 8, err
	case "deal128":
		cipher, err := crypta.NewDEALCipher(16)
		return cipher, 16, 16, err
	case "deal192":
		cipher, err := crypta.NewDEALCipher(24)
		return cipher, 24, 16, err
	case "deal256":
		cipher, err := crypta.NewDEALCipher(32)
		return cipher, 32, 16, err
	default:
		return nil, 0, 0, fmt.Errorf("неизвестный алгоритм: %s", algorithm)
	}
}

// parseCipherMode преобразует строку в CipherMode
func parseCipherMode(mode string) (crypta.CipherMode, error) {
	switch mode {
	case "ecb":
		return crypta.CipherModeECB, nil
	case "cbc":
		return crypta.CipherModeCBC, nil
	case "pcbc":
		return crypta.CipherModePCBC, nil
	case "cfb":
		return crypta.CipherModeCFB, nil
	case "ofb":
		return crypta.CipherModeOFB, nil
	case "ctr":
		return crypta.CipherModeCTR, nil
	case "random":
		return crypta.CipherModeRandomDelta, nil
	default:
		return 0, fmt.Errorf("неизвестный режим шифрования: %s", mode)
	}
}

// parsePaddingMode преобразует строку в PaddingMode
func parsePaddingMode(padding string) (crypta.PaddingMode, error) {
	switch padding {
	case "zeros":
		return crypta.PaddingModeZeros, nil
	case "pkcs7":
		return crypta.PaddingModePKCS7, nil
	case "ansi":
		return crypta.PaddingModeANSIX923, nil
	case "iso":
		return crypta.PaddingModeISO10126, nil
	default:
		return 0, fmt.Errorf("неизвестный режим набивки: %s", padding)
	}
}

// getOrGenerateKey возвращает ключ из флага или генерирует новый
func getOrGenerateKey(keyFlag string, keyLength int) ([]byte, error) {
	if keyFlag != "" {
		return parseHexString(keyFlag, keyLength)
	}

	key := make([]byte, keyLength)
	if _, err := crypta.GenerateRandomBytes(key); err != nil {
		return nil, fmt.Errorf("ошибка генерации ключа: %w", err)
	}
	return key, nil
}

// getOrGenerateIV возвращает IV из флага или генерирует новый
func getOrGenerateIV(ivFlag string, ivLength int) ([]byte, error) {
	if ivFlag != "" {
		return parseHexString(ivFlag, ivLength)
	}

	iv := make([]byte, ivLength)
	if _, err := crypta.GenerateRandomBytes(iv); err != nil {
		return nil, fmt.Errorf("ошибка генерации IV: %w", err)
	}
	return iv, nil
}

// parseHexString парсит hex строку в байты
func parseHexString(hexStr string, expectedLength int) ([]byte, error) {
	data, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, fmt.Errorf("неверный hex формат: %w", err)
	}

	if len(data) != expectedLength {
		return nil, fmt.Errorf("неверная длина: ожидается %d байт, получено %d", expectedLength, len(data))
	}

	return data, nil
}
