package testcases

// landingPage is a small, fully styled page used as the starting point for
// edit tests so that they do not depend on a generation turn.
const landingPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Acme Rockets</title>
<style>
  body { font-family: 'Inter', sans-serif; background: #ffffff; color: #111; padding: 16px; }
  .hero { padding: 48px 16px; border-radius: 12px; background: #f4f4f5; }
  .cta { background: #2563eb; color: white; padding: 12px 24px; border-radius: 8px; }
  footer { color: #666; }
</style>
</head>
<body>
  <section class="hero">
    <h1>Acme Rockets</h1>
    <p>Reusable rockets for everyone.</p>
    <a class="cta" href="#signup">Get started</a>
  </section>
  <section class="features">
    <h2>Why Acme</h2>
    <ul>
      <li>Fast launches</li>
      <li>Low cost</li>
      <li>Friendly support</li>
    </ul>
  </section>
  <footer>© 2024 Acme Rockets</footer>
</body>
</html>`
